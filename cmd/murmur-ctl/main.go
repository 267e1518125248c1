package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"murmur/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon socket path")
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		fmt.Println("usage: murmur-ctl [-s socket] start|stop|status|inject <file>")
		os.Exit(2)
	}

	cmd := args[0]
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}

	resp, err := ipc.Send(*socket, cmd, arg)
	if err != nil {
		fmt.Println("murmur-daemon not running:", err)
		os.Exit(1)
	}

	fmt.Println(resp.Message)
	if !resp.OK {
		os.Exit(1)
	}
}
