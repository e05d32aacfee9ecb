package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) listFarms(ctx context.Context) {
	farms, err := a.farmService.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(farms) == 0 {
		fmt.Println("No farms yet. Use 'newfarm' or 'join <code>'.")
		return
	}

	active, _ := a.farmService.ActiveFarmID(ctx)
	for _, f := range farms {
		marker := " "
		if f.ID == active {
			marker = "*"
		}
		fmt.Printf("%s %s  %s (%s, %s)\n", marker, f.ID, f.Name, f.Currency, f.Timezone)
	}
}

func (a *App) newFarm(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Farm name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	currency, err := GetSimpleText(a.reader, "Currency (e.g. BRL)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	timezone, err := GetSimpleText(a.reader, "Timezone (e.g. America/Sao_Paulo)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	farm, err := a.farmService.Create(ctx, name, currency, timezone)
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Printf("Created farm %s (%s), now active\n", farm.Name, farm.ID)
}

func (a *App) useFarm(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: usefarm <farm-id>")
		return
	}
	if err := a.farmService.SetActive(ctx, args[0]); err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Println("Active farm set")
}

func (a *App) invite(ctx context.Context, args []string) {
	farmID := ""
	if len(args) > 0 {
		farmID = args[0]
	} else {
		id, err := a.farmService.ActiveFarmID(ctx)
		if err != nil {
			fmt.Println("No active farm. Usage: invite [farm-id]")
			return
		}
		farmID = id
	}

	inv, err := a.farmService.Invite(ctx, farmID)
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Printf("Invite code: %s (valid until %s)\n", inv.Code, inv.ExpiresAt.String())
}

func (a *App) join(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: join <code>")
		return
	}
	farm, err := a.farmService.Join(ctx, args[0])
	if err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Printf("Joined farm %s (%s), now active. Run 'sync' to fetch its data.\n", farm.Name, farm.ID)
}
