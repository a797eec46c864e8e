// Command pomoctl controls a running pomodesk instance.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"pomodesk/internal/config"
	"pomodesk/internal/control"
	"pomodesk/internal/platform"
)

const usage = `usage: pomoctl [flags] <command> [args]

commands:
  status                      show both timers
  start | pause | reset       control the Pomodoro timer
  break | skip                start or skip a break
  countdown start|pause|reset
  countdown set <minutes>
  sound off|white|rain|brown
  preset <name>
  settings key=value...       work, short, long, sessions, auto-long, pause-music
  stats [YYYY-MM-DD]          completed sessions for a day (default today)

flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "pomoctl:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("pomoctl", flag.ContinueOnError)
	address := flags.String("addr", platform.InstanceAddress(config.AppName), "control socket address")
	asJSON := flags.Bool("json", false, "print the raw response")
	timeout := flags.Duration("timeout", 3*time.Second, "request timeout")
	flags.Usage = func() {
		fmt.Fprint(flags.Output(), usage)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := control.Dial(ctx, *address)
	if err != nil {
		return fmt.Errorf("%w (is pomodesk running?)", err)
	}
	defer client.Close()

	request, err := buildRequest(ctx, client, flags.Args())
	if err != nil {
		return err
	}
	response, err := client.Do(ctx, request)
	if err != nil {
		return err
	}

	if *asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	}
	if !response.OK {
		return errors.New(response.Error)
	}
	_, err = io.WriteString(out, render(response))
	return err
}
