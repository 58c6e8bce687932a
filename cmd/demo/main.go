package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"linguaroom/contract"
	"linguaroom/domain"
	"linguaroom/internal"
	"linguaroom/media"
	"linguaroom/moderation"
	"linguaroom/observability"
	"linguaroom/projection"
	"linguaroom/repositories"
	"linguaroom/search"
	"linguaroom/seed"
	"linguaroom/session"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Demo terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, plays a scripted session against the seed
// fixtures and renders the final state. Centralizing errors here (instead of
// calling os.Exit in place) keeps every defer running on the way out.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	demoCfg, err := LoadDemoConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("demo config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Moderation & Metrics
	moderator, err := moderation.NewModerator(config.Words(), charReplacement, logger)
	if err != nil {
		return exitConfig, fmt.Errorf("moderator error: %w", err)
	}
	metrics := observability.NewSessionMetrics(logger)

	// 3. Local message archive (in-memory BadgerDB)
	archive, err := repositories.NewMessageArchive(logger, config.LimitMessages)
	if err != nil {
		return exitRuntime, fmt.Errorf("archive opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing archive...")
		_ = archive.Close()
	}()

	// 4. Room directory index (in-memory Bluge)
	index, err := search.NewRoomIndex(logger)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open room index: %w", err)
	}
	defer func() {
		logger.Info("Closing room index...")
		_ = index.Close()
	}()
	rooms := seed.Rooms()
	if err := index.Index(rooms...); err != nil {
		return exitRuntime, fmt.Errorf("failed to index rooms: %w", err)
	}

	// 5. Session seeded with the demo fixtures
	room := rooms[0]
	sess := session.NewSession(session.Config{
		Room:             room,
		Roster:           seed.Roster(room.ID),
		Messages:         seed.Messages(),
		Friends:          seed.Friends(),
		FriendMessages:   seed.FriendMessages(),
		TypingTTL:        config.TypingTTL,
		MaxMessageLength: config.MaxMessageLength,
		Moderator:        &moderator,
		Notifier:         repositories.NewArchiveNotifier(archive),
		Metrics:          metrics,
	}, logger)

	timeline := projection.NewTimeline(domain.LocalViewer)
	sidebar := projection.NewSidebar(domain.LocalViewer)
	sess.AddSink(timeline, sidebar)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 7. Background workers
	workers := []contract.Worker{
		session.NewSweeper(sess, config.TypingSweepInterval),
		observability.NewHeartbeat(logger, metrics, config.HeartbeatInterval),
	}
	for _, worker := range workers {
		go func(w contract.Worker) {
			logger.Info("Starting worker", "name", contract.GetWorkerName(w))
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Worker stopped", "name", contract.GetWorkerName(w), "error", err)
			}
		}(worker)
	}

	// 8. Scripted walkthrough
	if err := playScript(ctx, logger, sess, index, demoCfg); err != nil {
		return exitRuntime, err
	}

	// 9. Final render
	// Notifications are fire-and-forget; let the archive writes land.
	time.Sleep(demoCfg.StepDelay)
	render(sess.Snapshot(), demoCfg)
	renderArchive(archive, room.ID, demoCfg)

	logger.Info("Demo finished", "stats", metrics.Snapshot())
	return exitOK, nil
}

func playScript(ctx context.Context, logger *slog.Logger, sess *session.Session, index *search.RoomIndex, cfg DemoConfig) error {
	step := func(name string) {
		header := fmt.Sprintf("  ====== %s ======", name)
		if cfg.Colours {
			header = color.New(color.BgBlack, color.FgGreen).Render(header)
		}
		fmt.Println(header)
		time.Sleep(cfg.StepDelay)
	}

	step("Dashboard search")
	ids, err := index.Search(ctx, "practice", "es", 10)
	if err != nil {
		return fmt.Errorf("room search failed: %w", err)
	}
	logger.Info("Spanish rooms matching 'practice'", "rooms", ids)

	step("Typing & message")
	sess.SetTyping("2")
	message, err := sess.SendMessage(ctx, "  Hello from the demo! <script> tags do not survive.  ")
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	logger.Info("Message committed", "id", message.ID, "lang", message.Lang)

	step("Reactions")
	if err := sess.ToggleReaction(ctx, message.ID, "👍", domain.LocalViewer); err != nil {
		return err
	}
	if err := sess.ToggleReaction(ctx, "4", "👍", domain.LocalViewer); err != nil {
		return err
	}

	step("Friends")
	conversation, err := sess.SelectFriend(ctx, "friend-1")
	if err != nil {
		return err
	}
	logger.Info("Conversation opened", "friend", conversation.FriendID, "messages", len(conversation.Messages))
	if _, err := sess.SendFriendMessage(ctx, "friend-1", "Let's practice tomorrow!"); err != nil {
		return err
	}
	if err := sess.ToggleFollow("2"); err != nil {
		return err
	}

	step("Call")
	devices := media.NewStubDevices(logger)
	sess.JoinCall(ctx)
	if err := sess.StartVideoCall(ctx, devices); err != nil {
		return err
	}
	if err := sess.ToggleScreenShare(ctx, devices); err != nil {
		return err
	}
	sess.ToggleMute()

	step("Moderation action")
	if err := sess.KickParticipant(ctx, "3"); err != nil {
		return err
	}

	sess.LeaveCall(ctx)
	return nil
}

func render(snapshot session.Snapshot, cfg DemoConfig) {
	title := fmt.Sprintf("  %s (%s) — %d/%d seats  ",
		snapshot.Room.Name, snapshot.Room.Language, len(snapshot.Roster), snapshot.Room.UserLimit)
	if cfg.Colours {
		title = color.New(color.BgBlue, color.FgWhite).Render(title)
	}
	fmt.Println(title)

	roster := newTable([]string{"ID", "Name", "Online", "Muted", "Video", "Followed"})
	for _, p := range snapshot.Roster {
		roster.Append([]string{
			string(p.ID), p.DisplayName,
			yesNo(p.IsOnline), yesNo(p.IsMuted), yesNo(p.IsVideoOn), yesNo(p.IsFollowed),
		})
	}
	roster.Render()

	messages := newTable([]string{"At", "Author", "Body", "Reactions"})
	for _, m := range snapshot.Messages {
		messages.Append([]string{
			m.CreatedAt.Format("15:04:05"), string(m.AuthorID), m.Body, formatReactions(m.Reactions),
		})
	}
	messages.Render()

	friends := newTable([]string{"Friend", "Last message", "Unread"})
	for _, f := range snapshot.Friends {
		unread := fmt.Sprintf("%d", snapshot.Conversations[f.ID].UnreadCount)
		friends.Append([]string{f.Username, f.LastMessage, unread})
	}
	friends.Render()

	inCall := lo.Map(snapshot.Call, func(m session.CallMember, _ int) string { return string(m.ID) })
	fmt.Printf("Typing: %v | In call: %v | Screen sharing: %t\n",
		snapshot.Typing, inCall, snapshot.ScreenSharing)
}

func renderArchive(archive *repositories.MessageArchive, roomID domain.RoomID, cfg DemoConfig) {
	archived, _, err := archive.List(roomID, nil)
	if err != nil {
		fmt.Printf("archive read failed: %v\n", err)
		return
	}
	header := fmt.Sprintf("  Archive holds %d message(s) for room %s  ", len(archived), roomID)
	if cfg.Colours {
		header = color.New(color.BgBlack, color.FgYellow).Render(header)
	}
	fmt.Println(header)
}

func newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(headers)
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
	return table
}

func formatReactions(reactions []domain.Reaction) string {
	var b strings.Builder
	for _, r := range reactions {
		fmt.Fprintf(&b, "%s×%d ", r.Emoji, len(r.ReactorIDs))
	}
	return strings.TrimSpace(b.String())
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
