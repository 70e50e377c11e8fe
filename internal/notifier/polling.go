package notifier

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	pollTimeout = 30 // seconds, server side
	retryDelay  = 5 * time.Second
)

// CommandHandler maps a command such as "/run" to a reply; an empty reply sends nothing.
type CommandHandler func(command string) string

type update struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, client *http.Client, offset int) ([]update, error) {
	var updates []update
	err := t.call(ctx, client, "getUpdates", map[string]int{"offset": offset, "timeout": pollTimeout}, &updates)
	return updates, err
}

// StartPolling long-polls for commands until ctx is cancelled.
// Messages from chats other than ChatID are acknowledged and ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	client := &http.Client{Timeout: (pollTimeout + 5) * time.Second, Transport: t.Client.Transport}
	offset := 0
	for ctx.Err() == nil {
		updates, err := t.getUpdates(ctx, client, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			t.Logger.Warn("polling request failed", zap.Error(err))
			sleep(ctx, retryDelay)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || strconv.FormatInt(u.Message.Chat.ID, 10) != t.ChatID {
				continue
			}
			cmd := command(u.Message.Text)
			if cmd == "" {
				continue
			}
			t.Logger.Info("received command", zap.String("command", cmd))
			if reply := handler(cmd); reply != "" {
				if err := t.Send(ctx, reply); err != nil {
					t.Logger.Error("send reply", zap.Error(err))
				}
			}
		}
	}
	t.Logger.Info("telegram polling stopped")
}

// command returns the first word of text with any "@botname" suffix removed.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
