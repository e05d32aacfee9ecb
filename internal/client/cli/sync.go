package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/agrosuite/agrosync/internal/common"
)

func (a *App) sync(ctx context.Context) {
	summary, err := a.syncService.Sync(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorSyncInProgress) {
			fmt.Println("A sync session is already running")
			return
		}
		log.Println(err.Error())
		return
	}

	fmt.Printf("Pushed %d row(s), pulled %d, applied %d locally\n",
		summary.Pushed, summary.Pulled, summary.AppliedLocal)
	fmt.Println("Watermark:", summary.Watermark.String())
}

func (a *App) status(ctx context.Context) {
	deviceID, err := a.repos.Meta.DeviceID(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}
	watermark, err := a.repos.Meta.LastSyncAt(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	fmt.Println("Device:   ", deviceID)
	fmt.Println("Watermark:", watermark.String())
	fmt.Println("State:    ", a.syncService.State())

	if farmID, err := a.farmService.ActiveFarmID(ctx); err == nil {
		fmt.Println("Farm:     ", farmID)
	} else {
		fmt.Println("Farm:      (none)")
	}
}
