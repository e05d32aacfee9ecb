package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if a.userEmail != "" {
		s = a.userEmail
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to AgroSync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("agro %s> ", a.getStatus())
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
				fmt.Println("Available commands: me, farms, newfarm, usefarm, invite, join,")
				fmt.Println("  add <table>, list <table>, delete <table> <id>, tables,")
				fmt.Println("  sync, status, ping, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, ping, exit")
			}

		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "me":
			a.me(ctx)
		case "farms":
			a.listFarms(ctx)
		case "newfarm":
			a.newFarm(ctx)
		case "usefarm":
			a.useFarm(ctx, args)
		case "invite":
			a.invite(ctx, args)
		case "join":
			a.join(ctx, args)
		case "tables":
			a.tables()
		case "add":
			a.add(ctx, args)
		case "list":
			a.list(ctx, args)
		case "delete":
			a.delete(ctx, args)
		case "sync":
			a.sync(ctx)
		case "status":
			a.status(ctx)
		case "ping":
			a.ping(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
