package mqtt

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
)

// TopicMeta is the retained announcement below an instance id.
const TopicMeta = "/meta"

// Meta announces a running daemon.
type Meta struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Device      string `json:"device,omitempty"`
}

// NewAnnouncedQueue creates a Queue which keeps meta retained on id/meta
// while connected. The broker clears it when the connection is lost.
func NewAnnouncedQueue(brokerURL string, meta Meta) (*Queue, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(&meta)
	if err != nil {
		return nil, err
	}
	topic := meta.ID + TopicMeta
	opts.SetBinaryWill(prefix+topic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("soda:" + meta.ID)
	}
	q := NewQueue(opts, prefix)
	q.OnConnect = func(q *Queue) {
		q.PubRetained(topic, data)
	}
	return q, nil
}

// Withdraw clears the announcement of id.
func Withdraw(q *Queue, id string) error {
	token := q.PubRetained(id+TopicMeta, nil)
	token.Wait()
	return token.Error()
}

// Discover collects announcements received within wait. q must be
// connected.
func Discover(ctx context.Context, q *Queue, wait time.Duration) []Meta {
	var lock sync.Mutex
	found := make(map[string]Meta)
	sub := q.Sub("+"+TopicMeta, func(topic string, payload []byte) {
		id := strings.TrimSuffix(topic, TopicMeta)
		lock.Lock()
		defer lock.Unlock()
		if len(payload) == 0 {
			delete(found, id)
			return
		}
		var meta Meta
		if err := json.Unmarshal(payload, &meta); err != nil {
			glog.Warningf("%s: bad announcement: %v", topic, err)
			return
		}
		found[id] = meta
	})
	defer sub.Close()

	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
	lock.Lock()
	defer lock.Unlock()
	metas := make([]Meta, 0, len(found))
	for _, meta := range found {
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })
	return metas
}
