// Command inbox prints the received and sent messages of a user as tables.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"campus-messages/internal/config"
	"campus-messages/internal/logging"
	"campus-messages/internal/service"
	"campus-messages/internal/storage"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

func main() {
	user := pflag.Int64("user", 0, "id of the user whose inbox is printed")
	envFile := pflag.String("env-file", ".env", "file with environment variables loaded before parsing")
	driver := pflag.String("storage", "", "storage driver overriding STORAGE_DRIVER (postgres or badger)")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}
	if *driver != "" {
		cfg.Storage.Driver = *driver
	}
	cfg.Logging.Level = "warn"

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("logging.New: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Storage.ConnectTimeout+5*time.Second)
	defer cancel()

	store, err := storage.Open(ctx, sugar, cfg.Storage)
	if err != nil {
		sugar.Fatalf("Cannot create Store instance: %v", err)
	}
	defer store.Close()

	inbox, err := service.NewMessageService(sugar, store).Inbox(ctx, *user)
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "User %d not found\n", *user)
		return
	}
	if err != nil {
		sugar.Fatalf("Cannot load inbox: %v", err)
	}

	printInbox(os.Stdout, inbox)
}

func printInbox(w io.Writer, inbox service.Inbox) {
	fmt.Fprintf(w, "Inbox of %s (%s, id %d)\n\n", inbox.User.Name, inbox.User.Role, inbox.User.ID)

	fmt.Fprintln(w, "Received")
	printMessages(w, "From", inbox.Received, func(m storage.Message) int64 { return m.SenderID }, "No messages received.")

	fmt.Fprintln(w, "\nSent")
	printMessages(w, "To", inbox.Sent, func(m storage.Message) int64 { return m.ReceiverID }, "No messages sent.")
}

func printMessages(w io.Writer, peerHeader string, msgs []storage.Message, peer func(storage.Message) int64, empty string) {
	if len(msgs) == 0 {
		fmt.Fprintln(w, empty)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", peerHeader, "Content", "Timestamp"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	table.AppendBulk(lo.Map(msgs, func(m storage.Message, _ int) []string {
		return []string{
			strconv.FormatInt(m.ID, 10),
			strconv.FormatInt(peer(m), 10),
			m.Content,
			m.Timestamp.Format(time.RFC3339),
		}
	}))
	table.Render()
}
