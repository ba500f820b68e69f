package cmd

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chabad360/improtron-osc/osc"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <address> [args...]",
	Short: "Send one OSC message",
	Long: `Send one OSC message. Arguments that parse as integers are sent as int32,
those that parse as numbers as float32, and everything else as strings.`,
	Example: `  improtron-osc send /sound/play "intro music"
  improtron-osc send /sound/seek 3.5 theme
  improtron-osc send --strings /sound/fade 2.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		asStrings, _ := cmd.Flags().GetBool("strings")

		msg := buildMessage(args[0], args[1:], asStrings)

		client, err := osc.Dial(addr)
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.Send(msg); err != nil {
			return errors.Wrapf(err, "sending %s", msg.Address)
		}
		cmd.Printf("sent %s to %s\n", msg, addr)
		return nil
	},
}

func init() {
	sendCmd.Flags().String("addr", "127.0.0.1:9000", "OSC server addr (host:port)")
	sendCmd.Flags().Bool("strings", false, "send every argument as a string")
	RootCmd.AddCommand(sendCmd)
}

func buildMessage(addr string, args []string, asStrings bool) *osc.Message {
	msg := osc.NewMessage(addr)
	for _, a := range args {
		msg.Arguments = append(msg.Arguments, parseArg(a, asStrings))
	}
	return msg
}

// parseArg picks the OSC type for a command line argument.
func parseArg(s string, asString bool) interface{} {
	if asString {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(i)
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return float32(f)
	}
	return s
}
