package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"chalethaven/client"
	"chalethaven/config"
	"chalethaven/models"
	"chalethaven/services/session"
	"chalethaven/utils"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const usage = `usage: console <command>
  login <email> <password>
  whoami
  list
  activate <slug> <true|false>
  logout`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	logger := utils.GetLogger()
	if err := utils.InitCache(cfg); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	defer utils.CloseCache()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("CONSOLE_API_URL", "http://localhost:"+cfg.AppPort)
	v.SetDefault("CONSOLE_CLIENT_ID", "default")

	api := client.New(v.GetString("CONSOLE_API_URL"), client.WithLogger(logger))
	storage := session.NewRedisStorage(utils.SessionCacheClient, v.GetString("CONSOLE_CLIENT_ID"))
	store := session.NewStore(storage, api, cfg.AllowedAdminRoles(), logger)
	api.SetSession(store)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, api, store, os.Args[1:]); err != nil {
		logger.Error("console command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, api *client.Client, store *session.Store, args []string) error {
	switch args[0] {
	case "login":
		if len(args) != 3 {
			return fmt.Errorf("login needs an email and a password")
		}
		sess, err := store.SignIn(ctx, models.LoginRequest{Email: args[1], Password: args[2]})
		if err != nil {
			return err
		}
		if store.Current(ctx).Status != session.Authenticated {
			return fmt.Errorf("role %q may not use the console", sess.Role)
		}
		fmt.Printf("signed in as %s (%s)\n", sess.User.Email, sess.Role)
	case "whoami":
		user, err := store.Verify(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", user.Email, user.Role)
	case "list":
		if store.Current(ctx).Status != session.Authenticated {
			return session.ErrNotSignedIn
		}
		listings, page, err := api.ListListings(ctx, models.ListingQuery{})
		if err != nil {
			return err
		}
		for _, l := range listings {
			fmt.Printf("%-24s active=%-5t %s\n", l.Slug, l.Availability.IsActive, l.Title)
		}
		fmt.Printf("%d of %d\n", len(listings), page.Total)
	case "activate":
		if len(args) != 3 {
			return fmt.Errorf("activate needs a slug and true or false")
		}
		active, err := strconv.ParseBool(args[2])
		if err != nil {
			return fmt.Errorf("invalid flag %q: %w", args[2], err)
		}
		l, err := api.UpdateListing(ctx, args[1], models.ListingPatch{
			Availability: &models.AvailabilityPatch{IsActive: &active},
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s active=%t\n", l.Slug, l.Availability.IsActive)
	case "logout":
		if err := api.Logout(ctx); err != nil && !client.IsUnauthorized(err) {
			utils.GetLogger().Warn("server logout failed", zap.Error(err))
		}
		store.SignOut(ctx)
		fmt.Println("signed out")
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
	return nil
}
