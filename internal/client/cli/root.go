package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return fmt.Sprintf("(%s)", a.config.Principal)
	}
	return ""
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to SchedVault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	a.Login(ctx)

	for {
		fmt.Printf("svcli %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: create, (l)ist, show <id>, reveal <id>, check <id>, handles <id>, exit")
			} else {
				fmt.Println("Available commands: login")
			}

		case "login":
			a.Login(ctx)
		case "create":
			a.create(ctx)
		case "list", "l":
			a.list(ctx)
		case "show":
			a.show(ctx, args)
		case "reveal":
			a.reveal(ctx, args)
		case "check":
			a.check(ctx, args)
		case "handles":
			a.handles(ctx, args)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}
	}
}

// requireArg extracts the single <id> argument commands like show/reveal take.
func requireArg(args []string) (string, bool) {
	if len(args) != 1 || args[0] == "" {
		fmt.Println("Usage: <command> <record-id>")
		return "", false
	}
	return args[0], true
}
