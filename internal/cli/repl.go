package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the command surface the REPL dispatches to. The real
// App satisfies it; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Passwd(ctx context.Context) error
	Refresh(ctx context.Context) error
	List(ctx context.Context) error
	Cd(ctx context.Context, target string) error
	Pwd(ctx context.Context) error
	Mkdir(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
	Rm(ctx context.Context, name string) error
	Upload(ctx context.Context, paths []string) error
	Export(ctx context.Context, name, dest string) error
	Search(ctx context.Context, query string) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) error
}

const (
	guestHelp = "Available commands: register [user], login [user], help, exit"
	userHelp  = "Available commands: ls, cd <name|..|/>, pwd, mkdir <name>, rename <old> <new>, rm <name>,\n" +
		"  upload <path>..., export <name> [dir], search <query>, clear, stats, whoami, passwd, refresh, logout, help, exit"
)

// dataCommands need a logged-in session.
var dataCommands = map[string]bool{
	"ls": true, "l": true, "list": true, "cd": true, "pwd": true, "mkdir": true, "rename": true, "mv": true, "rm": true,
	"upload": true, "export": true, "search": true, "clear": true, "stats": true,
	"passwd": true, "refresh": true,
}

// runREPL reads commands line by line and dispatches them to a until input
// ends or the user types exit/quit. Arguments may be quoted. Command errors
// are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func(context.Context) string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "dataroom:%s> ", statusFn(ctx))

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(out)
			return
		}

		parts, perr := splitArgs(strings.TrimSpace(line))
		if perr != nil {
			fmt.Fprintln(out, "Error:", perr)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(out, "Bye!")
			return
		}

		if dataCommands[cmd] && !a.isLoggedIn(ctx) {
			fmt.Fprintln(out, "Please login first.")
			continue
		}

		if err := dispatch(ctx, a, cmd, args, out); err != nil {
			fmt.Fprintln(out, "Error:", err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string, out io.Writer) error {
	usage := func(u string) error {
		fmt.Fprintln(out, "Usage:", u)
		return nil
	}

	switch cmd {
	case "help":
		if a.isLoggedIn(ctx) {
			fmt.Fprintln(out, userHelp)
		} else {
			fmt.Fprintln(out, guestHelp)
		}
		return nil

	case "register":
		return a.Register(ctx, args)
	case "login":
		return a.Login(ctx, args)
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.Whoami(ctx)
	case "passwd":
		return a.Passwd(ctx)
	case "refresh":
		return a.Refresh(ctx)

	case "ls", "l", "list":
		return a.List(ctx)
	case "cd":
		if len(args) != 1 {
			return usage("cd <name|..|/>")
		}
		return a.Cd(ctx, args[0])
	case "pwd":
		return a.Pwd(ctx)
	case "mkdir":
		if len(args) != 1 {
			return usage("mkdir <name>")
		}
		return a.Mkdir(ctx, args[0])
	case "rename", "mv":
		if len(args) != 2 {
			return usage("rename <old> <new>")
		}
		return a.Rename(ctx, args[0], args[1])
	case "rm":
		if len(args) != 1 {
			return usage("rm <name>")
		}
		return a.Rm(ctx, args[0])
	case "upload":
		if len(args) == 0 {
			return usage("upload <path>...")
		}
		return a.Upload(ctx, args)
	case "export":
		switch len(args) {
		case 1:
			return a.Export(ctx, args[0], "")
		case 2:
			return a.Export(ctx, args[0], args[1])
		}
		return usage("export <name> [dir]")
	case "search":
		if len(args) == 0 {
			return usage("search <query>")
		}
		return a.Search(ctx, strings.Join(args, " "))
	case "clear":
		return a.Clear(ctx)
	case "stats":
		return a.Stats(ctx)
	}

	fmt.Fprintln(out, "Unknown command:", cmd)
	return nil
}
