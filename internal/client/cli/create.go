package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/schedvault/schedvault/internal/client/api"
)

func (a *App) create(ctx context.Context) {

	if !a.isLoggedIn() {
		fmt.Println("Please login first")
		return
	}

	id, err := GetSimpleText(a.reader, "Record id", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	start, err := GetMinuteOfDay(a.reader, "Start time (HH:MM or minutes)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	end, err := GetMinuteOfDay(a.reader, "End time (HH:MM or minutes)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	if end < start {
		fmt.Println("End time must not precede start time")
		return
	}

	ctStart, proofStart, err := a.encryptor.Encrypt(start)
	if err != nil {
		log.Println(err.Error())
		return
	}
	ctEnd, proofEnd, err := a.encryptor.Encrypt(end)
	if err != nil {
		log.Println(err.Error())
		return
	}

	view, err := a.api.CreateRecord(ctx, api.CreateRecordRequest{
		ID:             id,
		Title:          title,
		EncryptedStart: ctStart,
		StartProof:     proofStart,
		EncryptedEnd:   ctEnd,
		EndProof:       proofEnd,
		PublicDuration: end - start,
	})
	if err != nil {
		log.Println(err.Error())
		return
	}

	a.submitted[id] = sealedPair{start: ctStart, end: ctEnd}

	fmt.Printf("Created %s (duration %d min)\n", view.ID, view.PublicDuration)
}
