// Command test_alert places one call to a contact using the emergency
// settings of a config file, to verify the Twilio setup end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stellaroneai/swara/pkg/command"
	"github.com/stellaroneai/swara/pkg/configutil"
	"github.com/stellaroneai/swara/pkg/controller"
	"github.com/stellaroneai/swara/pkg/logging"
	"github.com/stellaroneai/swara/pkg/swara"
	"github.com/stellaroneai/swara/pkg/transports/twilio"
)

func main() {
	configPath := flag.String("config", "examples/assistant/config.yaml", "")
	to := flag.String("to", "", "override the configured contacts with one number")
	flag.Parse()

	cfg, err := swara.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if cfg.Emergency.Provider != "twilio" {
		fmt.Println("emergency.provider is not twilio")
		os.Exit(1)
	}
	var settings twilio.Config
	if err := configutil.DecodeSettings(cfg.Emergency.Settings, &settings); err != nil {
		fmt.Println("settings error:", err)
		os.Exit(1)
	}
	if *to != "" {
		settings.Contacts = []string{*to}
	}

	log := logging.InitLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	sink := twilio.NewEmergencySink(settings, nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = sink.Emit(ctx, controller.Event{
		Kind:   command.KindEmergency,
		Target: command.TargetEmergency,
		TurnID: "test-alert",
		At:     time.Now(),
	})
	if err != nil {
		fmt.Println("dial error:", err)
		os.Exit(1)
	}
	fmt.Println("alert placed")
}
