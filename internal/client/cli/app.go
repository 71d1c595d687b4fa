package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/schedvault/schedvault/internal/client/api"
	"github.com/schedvault/schedvault/internal/client/config"
	"github.com/schedvault/schedvault/internal/oracle/sealed"
	"github.com/schedvault/schedvault/internal/server/auth"
)

// sealedPair keeps the ciphertexts submitted for one record. Sealing is
// randomized, so decryption proofs can only be built over the exact bytes
// the server stores; the client remembers them per session.
type sealedPair struct {
	start []byte
	end   []byte
}

type App struct {
	config    *config.Config
	api       *api.Client
	encryptor *sealed.Encryptor
	reader    *bufio.Reader
	submitted map[string]sealedPair
}

func NewApp(c *config.Config) (*App, error) {
	return &App{
		config:    c,
		api:       api.New(c.ServerEndpointAddr, ""),
		reader:    bufio.NewReader(os.Stdin),
		submitted: make(map[string]sealedPair),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.encryptor != nil
}

// Login derives the oracle key material from a passphrase and issues an
// access token for the configured principal. The same passphrase and salt
// the server's oracle was initialized with must be used, otherwise the
// server will reject every ciphertext as malformed.
func (a *App) Login(ctx context.Context) {

	passphrase, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	encryptor, err := sealed.NewEncryptorFromPassphrase(passphrase, []byte(a.config.OracleSalt))
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	token, err := auth.GenerateToken(a.config.Principal, []byte(a.config.SecretKey), a.config.TokenValidityDuration)
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	a.encryptor = encryptor
	a.api = api.New(a.config.ServerEndpointAddr, token)

	fmt.Printf("Logged in as %s\n", a.config.Principal)
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
