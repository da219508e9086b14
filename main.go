package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	wsutil "github.com/diamondburned/arikawa/v3/utils/ws"
	"github.com/getsentry/sentry-go"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"
	"github.com/starshine-sys/bcr"

	"github.com/united-minecrafters/kaede/bot"
	"github.com/united-minecrafters/kaede/commands"
	"github.com/united-minecrafters/kaede/common/log"
	"github.com/united-minecrafters/kaede/config"
	"github.com/united-minecrafters/kaede/db"
	"github.com/united-minecrafters/kaede/db/stats"
	"github.com/united-minecrafters/kaede/events"
	"github.com/united-minecrafters/kaede/moderation"
	"github.com/united-minecrafters/kaede/modlog"
)

var configFile = pflag.StringP("config", "c", "config.yaml", "path to the configuration file")

func main() {
	pflag.Parse()

	ws := log.Named("ws")
	wsutil.WSDebug = ws.Debug
	wsutil.WSError = func(err error) {
		ws.Error(err)
	}

	sugar := log.Named("init")

	cfg, err := config.Load(*configFile)
	if err != nil {
		sugar.Fatalf("Error loading config: %v", err)
	}

	intents := gateway.IntentGuilds | gateway.IntentGuildMembers |
		gateway.IntentGuildBans | gateway.IntentGuildMessages |
		gateway.IntentDirectMessages

	sf, _ := discord.ParseSnowflake(os.Getenv("OWNER"))

	prefixes := cfg.Get().Prefixes
	if len(prefixes) == 0 {
		prefixes = strings.Split(os.Getenv("PREFIXES"), ",")
	}

	r, err := bcr.NewWithIntents(
		os.Getenv("TOKEN"),
		[]discord.UserID{discord.UserID(sf)},
		prefixes,
		intents,
	)
	if err != nil {
		sugar.Fatalf("Error creating bot: %v", err)
	}
	r.EmbedColor = bcr.ColourPurple

	// sentry, if enabled
	var hub *sentry.Hub
	if os.Getenv("SENTRY_URL") != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn: os.Getenv("SENTRY_URL"),
		})
		if err != nil {
			sugar.Fatalf("Error initialising Sentry: %v", err)
		}
		hub = sentry.CurrentHub()
	}

	database, err := db.New(os.Getenv("DATABASE_URL"), hub)
	if err != nil {
		sugar.Fatalf("Error opening database connection: %v", err)
	}
	sugar.Infof("Opened database connection.")

	// statistics, if enabled
	var st *stats.Client
	if os.Getenv("INFLUX_URL") != "" {
		st = stats.New(os.Getenv("INFLUX_URL"), os.Getenv("INFLUX_TOKEN"), os.Getenv("INFLUX_ORG"), os.Getenv("INFLUX_DB"))
		sugar.Infof("Initialised InfluxDB client.")
	}

	s, _ := r.StateFromGuildID(0)

	me, err := s.Me()
	if err != nil {
		sugar.Fatalf("Error fetching the bot user: %v", err)
	}
	r.Bot = me
	// normally creating a Context would do this, but as we set the user above, that doesn't work
	r.Prefixes = append(r.Prefixes, "<@"+me.ID.String()+">", "<@!"+me.ID.String()+">")

	ml := modlog.New(cfg, s)
	actions := moderation.New(cfg, s.Client, ml, database, me.ID)

	b := bot.New(r, cfg, database, ml, actions, st)
	commands.Init(b)
	events.Init(b)

	if err := b.Open(context.Background()); err != nil {
		sugar.Fatalf("Failed to connect: %v", err)
	}

	// Defer this to make sure that things are always cleanly shutdown even in the event of a crash
	defer func() {
		database.Pool.Close()
		sugar.Info("Closed database connection.")
		b.Close()
		sugar.Info("Disconnected from Discord.")
	}()

	sugar.Infof("User: %v#%v (%v)", me.Username, me.Discriminator, me.ID)
	sugar.Info("Connected to Discord. Press Ctrl-C or send an interrupt signal to stop.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt, os.Kill)
	<-sc

	sugar.Infof("Interrupt signal received. Shutting down...")
}
