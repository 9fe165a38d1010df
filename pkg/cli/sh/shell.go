// Package sh is the operator shell for the soda machine.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	fx "github.com/robotalks/soda.go/pkg/framework"
	"github.com/robotalks/soda.go/pkg/l0/device"
	"github.com/robotalks/soda.go/pkg/msgs"
	"github.com/robotalks/soda.go/pkg/vending"
)

// Doer executes a command message and returns its reply. Both the local
// daemon.Worker and the remote ipc.Client implement it.
type Doer interface {
	Do(ctx context.Context, msg fx.Message) (fx.Message, error)
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	// Timeout bounds every command on top of its own wait.
	Timeout time.Duration

	Shell *ishell.Shell
	Doer  Doer

	// err is the last failure reported by a command.
	err error
}

const (
	shellKey = "$shell"
	prompt   = "soda> "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&InventoryCmd,
		&HasCmd,
		&VendCmd,
		&ButtonCmd,
		&PortsCmd,
		&DiscoverCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// New creates a new shell sending commands to doer.
func New(doer Doer) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Timeout:     5 * time.Second,

		Shell: ishell.New(),
		Doer:  doer,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Fail reports a command failure and records it for Run.
func Fail(c *ishell.Context, err error) {
	ShellFrom(c).err = err
	c.Err(err)
}

// DoCommand runs a command, waiting at most wait plus the shell timeout,
// and prints the result.
func DoCommand(c *ishell.Context, msg fx.Message, wait time.Duration) error {
	s := ShellFrom(c)
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout+wait)
	defer cancel()
	reply, err := s.Doer.Do(ctx, msg)
	if err != nil {
		Fail(c, err)
		return err
	}
	if s.OutputJSON {
		out, err := json.Marshal(reply)
		if err != nil {
			Fail(c, err)
			return err
		}
		c.Println(string(out))
	} else {
		c.Println(FormatReply(reply))
	}
	if v, ok := reply.(*msgs.VendReply); ok && v.Code != vending.VendSuccess.Code() {
		s.err = fmt.Errorf("vend slot %d: %s", v.Slot, vending.OutcomeFromCode(v.Code))
		return s.err
	}
	return nil
}

// FormatReply renders a reply for display.
func FormatReply(reply fx.Message) string {
	switch m := reply.(type) {
	case *msgs.CommandOK:
		return "OK"
	case *msgs.InventoryReply:
		return fmt.Sprintf("%s (%#02x)", m.Slots, m.Bitmap)
	case *msgs.SlotReply:
		if m.HasSoda {
			return fmt.Sprintf("slot %d has soda", m.Slot)
		}
		return fmt.Sprintf("slot %d is empty", m.Slot)
	case *msgs.ButtonReply:
		if m.Button == vending.NoButton {
			return "no button pressed"
		}
		return fmt.Sprintf("button %d", m.Button)
	case *msgs.VendReply:
		outcome := vending.OutcomeFromCode(m.Code)
		if m.Error != "" {
			return fmt.Sprintf("slot %d: %s: %s", m.Slot, outcome, m.Error)
		}
		return fmt.Sprintf("slot %d: %s", m.Slot, outcome)
	}
	if s, ok := reply.(msgs.SerializableMessage); ok {
		return s.Serializable().String()
	}
	return fmt.Sprintf("%v", reply)
}

func slotArg(args []string) (int32, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("SLOT expected")
	}
	slot, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid SLOT %q", args[0])
	}
	if err := device.CheckRange("slot", int(slot), vending.MinSlot, vending.MaxSlot); err != nil {
		return 0, err
	}
	return int32(slot), nil
}

// Run runs the shell and reports whether all commands succeeded.
func (s *Shell) Run(args ...string) bool {
	if len(args) > 0 {
		s.err = nil
		if err := s.Shell.Process(args...); err != nil {
			glog.Errorf("%v", err)
			return false
		}
		return s.err == nil
	}
	if s.Interactive {
		s.Shell.Run()
		return true
	}
	fmt.Fprintln(os.Stderr, "command expected")
	return false
}
