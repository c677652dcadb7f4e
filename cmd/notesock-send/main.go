// Command notesock-send delivers a trigger token to a running
// notesock-server instance.
//
// Usage:
//
//	notesock-send [flags] <token>
//	notesock-send -i
//
// Flags:
//
//	--socket string  Socket endpoint path override
//	-i, --interactive  Read tokens interactively, one per line
//	--version        Print the version and exit
//
// Each token travels on its own connection. The current server sends no
// reply, so a clean send prints SENT; OK and ERR replies from future
// servers are printed as received.
//
// Exit codes: 0 sent or acknowledged, 1 usage error, 2 connect failure,
// 3 send failure, 4 receive failure, 5 server-reported error.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	flag "github.com/spf13/pflag"

	"github.com/notesock/notesock-go/pkg/transport"
	"github.com/notesock/notesock-go/pkg/version"
)

const (
	exitOK        = 0
	exitUsage     = 1
	exitConnect   = 2
	exitSend      = 3
	exitReceive   = 4
	exitServerErr = 5
)

var (
	flagSocket      = flag.String("socket", "", "socket endpoint path override")
	flagInteractive = flag.BoolP("interactive", "i", false, "read tokens interactively, one per line")
	flagVersion     = flag.Bool("version", false, "print the version and exit")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	if *flagVersion {
		fmt.Println("notesock-send " + version.String())
		return exitOK
	}

	socketPath := *flagSocket
	if socketPath == "" {
		socketPath = transport.DefaultSocketPath()
	}

	if *flagInteractive {
		return runInteractive(socketPath)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: notesock-send [flags] <token>")
		return exitUsage
	}
	return send(socketPath, flag.Arg(0))
}

// send delivers one token on its own connection and prints the outcome.
func send(socketPath, token string) int {
	reply, err := transport.SendToken(socketPath, token)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		switch {
		case errors.Is(err, transport.ErrConnect):
			return exitConnect
		case errors.Is(err, transport.ErrSend):
			return exitSend
		default:
			return exitReceive
		}
	}

	switch {
	case reply.ServerErr:
		fmt.Println(reply.Text)
		return exitServerErr
	case reply.Acked:
		fmt.Println(reply.Text)
		return exitOK
	default:
		fmt.Println("SENT")
		return exitOK
	}
}

// runInteractive reads tokens line by line, sending each on a fresh
// connection. Errors are printed but do not end the loop.
func runInteractive(socketPath string) int {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "notesock> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create readline:", err)
		return exitUsage
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			// EOF
			return exitOK
		}

		token := strings.TrimSpace(line)
		switch token {
		case "":
			continue
		case "exit", "quit":
			return exitOK
		}

		send(socketPath, token)
	}
}
