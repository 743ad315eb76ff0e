package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

var errOwnerExists = errors.New("owner already exists")

func readPassphrase(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("passphrase is required on stdin")
	}
	return line, nil
}

// createOwner validates and stores the single owner account.
func createOwner(ctx context.Context, owners db.OwnerCollection, authService *auth.Service, username, passphrase string, now time.Time) (*models.Owner, error) {
	if err := authService.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := authService.ValidatePassphrase(passphrase); err != nil {
		return nil, err
	}

	// there is only ever one owner account
	count, err := owners.CountOwners(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errOwnerExists
	}

	hash, err := authService.HashPassphrase(passphrase)
	if err != nil {
		return nil, err
	}
	owner := models.Owner{
		Username:       username,
		PassphraseHash: hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := owners.InsertOwner(ctx, owner); err != nil {
		return nil, err
	}
	return &owner, nil
}

func newOwnerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Manage the owner account",
	}

	var username string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create the owner account; reads the passphrase from stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			passphrase, err := readPassphrase(cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, err := db.ConnectMongo(opts.mongoURI)
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			database := client.Database(opts.mongoDB)
			if err := db.EnsureIndexes(ctx, database); err != nil {
				return err
			}
			owners := &db.MongoOwnerCollection{Collection: database.Collection(db.OwnersCollection)}
			owner, err := createOwner(ctx, owners, auth.NewService("", 0), username, passphrase, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created owner %s\n", owner.Username)
			return nil
		},
	}
	create.Flags().StringVarP(&username, "username", "u", "owner", "Owner username")
	cmd.AddCommand(create)
	return cmd
}
