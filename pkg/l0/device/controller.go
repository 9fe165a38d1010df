package device

import (
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/soda.go/pkg/l0/frame"
	"github.com/robotalks/soda.go/pkg/l0/serial"
)

// Link is the transport used by a Controller. *serial.Channel implements it.
type Link interface {
	Write([]byte) (int, error)
	ReadUntil(deadline time.Time, budget int, complete frame.Predicate) (serial.Reply, error)
	Flush() error
}

// State is the state of the current (or last) exchange.
type State int

// Exchange states.
const (
	StateIdle State = iota
	StateCommandSent
	StateAwaitingReply
	StateRepliedOK
	StateRepliedError
	StateTimedOut
	StateFatal
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateCommandSent:   "command-sent",
	StateAwaitingReply: "awaiting-reply",
	StateRepliedOK:     "replied-ok",
	StateRepliedError:  "replied-error",
	StateTimedOut:      "timed-out",
	StateFatal:         "fatal",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Status is the outcome of an exchange which got past the write.
type Status int

// Exchange outcomes.
const (
	StatusOK Status = iota
	StatusTimedOut
	StatusMalformed
)

// Result is the typed outcome of Execute.
type Result struct {
	Status Status
	// Payload is the validated reply payload, set only for StatusOK.
	Payload []byte
	// Raw is every byte received during the exchange.
	Raw []byte
	// Err explains StatusMalformed.
	Err error
}

// AsError converts a non-OK result into ErrTimedOut or a *MalformedError.
func (r *Result) AsError(command string) error {
	switch r.Status {
	case StatusOK:
		return nil
	case StatusTimedOut:
		return fmt.Errorf("%s: %w", command, ErrTimedOut)
	}
	return &MalformedError{Command: command, Raw: r.Raw, Err: r.Err}
}

// Controller runs one exchange at a time over a Link. It is not safe for
// concurrent use; a single owner serializes all commands.
type Controller struct {
	// Retries is how many more times an idempotent command is attempted
	// after a timeout or a malformed reply.
	Retries int

	link  Link
	codec frame.Codec
	state State
	sleep func(time.Duration)
}

// NewController creates a Controller framing commands with codec.
func NewController(link Link, codec frame.Codec) *Controller {
	return &Controller{link: link, codec: codec, sleep: time.Sleep}
}

// State returns the state of the current or last exchange.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) transit(cmd string, s State) {
	glog.V(4).Infof("%s: %s -> %s", cmd, c.state, s)
	c.state = s
}

// Execute sends spec with args and waits up to timeout for the reply.
// Invalid arguments fail before any byte is written. Write and read
// failures are returned as *IOError and are never retried. Timeouts and
// malformed replies are reported in Result.
func (c *Controller) Execute(spec *CommandSpec, timeout time.Duration, args ...int) (Result, error) {
	c.transit(spec.Name, StateIdle)
	payload, err := spec.Encode(args...)
	if err != nil {
		return Result{}, err
	}
	if spec.Reply != ReplyNone && timeout <= 0 {
		return Result{}, fmt.Errorf("%w: %s timeout %v", ErrInvalidArgument, spec.Name, timeout)
	}
	out, err := c.codec.Encode(payload)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", spec.Name, err)
	}

	attempts := 1
	if spec.Idempotent && c.Retries > 0 {
		attempts += c.Retries
	}
	var res Result
	for n := 0; n < attempts; n++ {
		if n > 0 {
			glog.Warningf("%s: retry %d after %s", spec.Name, n, c.state)
			if err := c.link.Flush(); err != nil {
				c.transit(spec.Name, StateFatal)
				return res, &IOError{Op: spec.Name + " flush", Err: err}
			}
		}
		if res, err = c.exchange(spec, out, timeout); err != nil || res.Status == StatusOK {
			return res, err
		}
	}
	return res, nil
}

// Receive waits up to timeout for unsolicited data accepted by complete.
// The data is not framed by the codec and is returned as is.
func (c *Controller) Receive(name string, budget int, complete frame.Predicate, timeout time.Duration) (Result, error) {
	c.transit(name, StateAwaitingReply)
	return c.await(name, budget, complete, nil, timeout)
}

// Flush discards pending input.
func (c *Controller) Flush() error {
	if err := c.link.Flush(); err != nil {
		return &IOError{Op: "flush", Err: err}
	}
	return nil
}

func (c *Controller) exchange(spec *CommandSpec, out []byte, timeout time.Duration) (Result, error) {
	c.transit(spec.Name, StateCommandSent)
	n, err := c.link.Write(out)
	if err != nil {
		c.transit(spec.Name, StateFatal)
		glog.Errorf("%s: write failed: %v", spec.Name, err)
		return Result{}, &IOError{Op: spec.Name + " write", Want: len(out), Got: n, Err: err}
	}

	if spec.Reply == ReplyNone {
		if spec.Settle > 0 {
			c.sleep(spec.Settle)
		}
		if err := c.link.Flush(); err != nil {
			c.transit(spec.Name, StateFatal)
			return Result{}, &IOError{Op: spec.Name + " flush", Err: err}
		}
		c.transit(spec.Name, StateRepliedOK)
		return Result{Status: StatusOK}, nil
	}

	c.transit(spec.Name, StateAwaitingReply)
	complete, budget := spec.predicate(&c.codec)
	return c.await(spec.Name, budget, complete, func(raw []byte) ([]byte, error) {
		payload, err := c.codec.Decode(raw)
		if err == nil && spec.Check != nil {
			err = spec.Check(payload)
		}
		return payload, err
	}, timeout)
}

func (c *Controller) await(name string, budget int, complete frame.Predicate, decode func([]byte) ([]byte, error), timeout time.Duration) (Result, error) {
	reply, err := c.link.ReadUntil(time.Now().Add(timeout), budget, complete)
	res := Result{Raw: reply.Data}
	if err != nil {
		c.transit(name, StateFatal)
		glog.Errorf("%s: read failed: %v", name, err)
		return res, &IOError{Op: name + " read", Err: err}
	}
	switch reply.Kind {
	case serial.ReplyTimeout:
		c.transit(name, StateTimedOut)
		res.Status = StatusTimedOut
		return res, nil
	case serial.ReplyMalformed:
		res.Err = fmt.Errorf("unexpected bytes % x", reply.Data)
		return c.malformed(name, res), nil
	}
	if decode == nil {
		res.Payload = append([]byte(nil), reply.Data...)
	} else if res.Payload, err = decode(reply.Data); err != nil {
		res.Payload, res.Err = nil, err
		return c.malformed(name, res), nil
	}
	c.transit(name, StateRepliedOK)
	return res, nil
}

func (c *Controller) malformed(name string, res Result) Result {
	c.transit(name, StateRepliedError)
	glog.Warningf("%s: malformed reply % x: %v", name, res.Raw, res.Err)
	res.Status = StatusMalformed
	return res
}
