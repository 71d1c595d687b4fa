package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/schedvault/schedvault/internal/client/api"
)

func (a *App) check(ctx context.Context, args []string) {

	if !a.isLoggedIn() {
		fmt.Println("Please login first")
		return
	}

	id, ok := requireArg(args)
	if !ok {
		return
	}

	query, err := GetMinuteOfDay(a.reader, "Query time (HH:MM or minutes)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	ct, proof, err := a.encryptor.Encrypt(query)
	if err != nil {
		log.Println(err.Error())
		return
	}

	available, err := a.api.CheckAvailability(ctx, id, api.AvailabilityRequest{
		EncryptedQuery: ct,
		QueryProof:     proof,
	})
	if err != nil {
		log.Println(err.Error())
		return
	}

	if available {
		fmt.Printf("%s is free for %s\n", formatMinuteOfDay(query), id)
	} else {
		fmt.Printf("%s conflicts with %s\n", formatMinuteOfDay(query), id)
	}
}
