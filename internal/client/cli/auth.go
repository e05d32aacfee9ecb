package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	name, err := GetSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.authService.Register(ctx, email, string(password), name); err != nil {
		log.Printf("Registration unsuccessfull: %s", err.Error())
		return
	}
	log.Printf("Registration successfull, you can now login")
}

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.authService.Login(ctx, email, string(password)); err != nil {
		log.Printf("Login unsuccessfull: %s", err.Error())
		return
	}

	a.userEmail = email
	log.Printf("Login successfull")
}

func (a *App) logout(ctx context.Context) {
	if err := a.authService.Logout(ctx); err != nil {
		log.Printf("error: %v", err)
		return
	}
	a.userEmail = ""
	log.Printf("Logged out")
}

func (a *App) me(ctx context.Context) {
	user, farms, err := a.authService.Me(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	for _, f := range farms {
		fmt.Printf("  %s  %s (%s)\n", f.ID, f.Name, f.Role)
	}
}

func (a *App) ping(ctx context.Context) {
	if err := a.authService.Ping(ctx); err != nil {
		fmt.Println("Server unreachable:", err.Error())
		return
	}
	fmt.Println("Server is up")
}
