package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/schedvault/schedvault/internal/client/api"
)

func (a *App) reveal(ctx context.Context, args []string) {

	if !a.isLoggedIn() {
		fmt.Println("Please login first")
		return
	}

	id, ok := requireArg(args)
	if !ok {
		return
	}

	pair, ok := a.submitted[id]
	if !ok {
		fmt.Println("No sealed material for this record in the current session; reveal requires the original ciphertexts")
		return
	}

	start, err := GetMinuteOfDay(a.reader, "Cleartext start time (HH:MM or minutes)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	end, err := GetMinuteOfDay(a.reader, "Cleartext end time (HH:MM or minutes)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	claimStart, proofStart := a.encryptor.ProveReveal(pair.start, start)
	claimEnd, proofEnd := a.encryptor.ProveReveal(pair.end, end)

	view, err := a.api.Reveal(ctx, id, api.RevealRequest{
		ClaimedStart: claimStart,
		StartProof:   proofStart,
		ClaimedEnd:   claimEnd,
		EndProof:     proofEnd,
	})
	if err != nil {
		log.Println(err.Error())
		return
	}

	fmt.Printf("Revealed %s: start=%s end=%s\n", view.ID, formatMinuteOfDay(view.RevealedStart), formatMinuteOfDay(view.RevealedEnd))
}

func formatMinuteOfDay(v uint32) string {
	return fmt.Sprintf("%02d:%02d", v/60, v%60)
}
