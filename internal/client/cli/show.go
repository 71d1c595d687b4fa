package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) list(ctx context.Context) {
	ids, err := a.api.ListRecords(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, id := range ids {
		fmt.Println(id)
	}
}

func (a *App) show(ctx context.Context, args []string) {
	id, ok := requireArg(args)
	if !ok {
		return
	}

	view, err := a.api.GetRecord(ctx, id)
	if err != nil {
		log.Println(err.Error())
		return
	}

	fmt.Printf("id:       %s\n", view.ID)
	fmt.Printf("title:    %s\n", view.Title)
	fmt.Printf("creator:  %s\n", view.Creator)
	fmt.Printf("duration: %d min\n", view.PublicDuration)
	fmt.Printf("created:  %s\n", view.CreatedAt.Format("2006-01-02 15:04:05"))
	if view.Verified {
		fmt.Printf("revealed: %s - %s\n", formatMinuteOfDay(view.RevealedStart), formatMinuteOfDay(view.RevealedEnd))
	} else {
		fmt.Println("revealed: (sealed)")
	}
}

func (a *App) handles(ctx context.Context, args []string) {

	if !a.isLoggedIn() {
		fmt.Println("Please login first")
		return
	}

	id, ok := requireArg(args)
	if !ok {
		return
	}

	h, err := a.api.GetHandles(ctx, id)
	if err != nil {
		log.Println(err.Error())
		return
	}

	fmt.Printf("start: %s\n", h.Start)
	fmt.Printf("end:   %s\n", h.End)
}
