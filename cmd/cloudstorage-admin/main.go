// Command cloudstorage-admin registers an account directly against the
// database, prompting for the password on the terminal. Intended for
// bootstrapping a fresh deployment.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
	"github.com/vyacheslafka/cloudstorage-server/internal/dbx"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/config"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/models"
	"github.com/vyacheslafka/cloudstorage-server/internal/server/repositories/repomanager"
)

func promptText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt + "\n> ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt + "\n> ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	return password, err
}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations error: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	name, err := promptText(reader, "Account name")
	if err != nil {
		log.Fatalf("read name: %v", err)
	}
	email, err := promptText(reader, "Email")
	if err != nil {
		log.Fatalf("read email: %v", err)
	}
	password, err := promptPassword("Password (input hidden)")
	if err != nil {
		log.Fatalf("read password: %v", err)
	}
	defer common.WipeByteArray(password)

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash error: %v", err)
	}

	var account *models.Account
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := rm.Accounts(tx)
		if _, err := repo.FindByName(ctx, name); err == nil {
			return fmt.Errorf("account %q already exists", name)
		} else if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("lookup error: %w", err)
		}

		account, err = repo.Create(ctx, &models.Account{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Role:         models.RoleUser,
		})
		return err
	})
	if err != nil {
		log.Fatalf("create error: %v", err)
	}

	fmt.Printf("account created: id=%d name=%s\n", account.ID, account.Name)
}
