package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dnldd/setupwatch/alert"
	"github.com/dnldd/setupwatch/shared"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	// defaultMaxRetryTimeout is the default maximum time spent retrying a delivery.
	defaultMaxRetryTimeout = time.Second * 20
)

// Sender defines the requirements for sending telegram messages.
type Sender interface {
	// Send sends the provided chattable.
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Recipient represents a telegram chat alerts are delivered to through a bot.
type Recipient struct {
	// Token is the bot token used to deliver alerts to the chat.
	Token string
	// ChatID is the id of the chat.
	ChatID int64
}

// TelegramConfig represents the configuration for the telegram notifier.
type TelegramConfig struct {
	// Recipients are the chats alerts are delivered to.
	Recipients []Recipient
	// NewSender creates a sender for the provided bot token.
	NewSender func(token string) (Sender, error)
	// MaxRetryTimeout is the maximum time spent retrying a single delivery.
	MaxRetryTimeout time.Duration
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *TelegramConfig) Validate() error {
	var errs error

	if len(cfg.Recipients) == 0 {
		errs = errors.Join(errs, errors.New("no telegram recipients provided"))
	}
	for idx := range cfg.Recipients {
		if cfg.Recipients[idx].Token == "" {
			errs = errors.Join(errs, fmt.Errorf("recipient #%d bot token cannot be an empty string", idx))
		}
		if cfg.Recipients[idx].ChatID == 0 {
			errs = errors.Join(errs, fmt.Errorf("recipient #%d chat id cannot be zero", idx))
		}
	}
	if cfg.MaxRetryTimeout < 0 {
		errs = errors.Join(errs, errors.New("max retry timeout cannot be negative"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, errors.New("logger cannot be nil"))
	}

	return errs
}

// BotSender creates a telegram bot api sender for the provided token.
func BotSender(token string) (Sender, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	return bot, nil
}

// Telegram delivers alerts to every configured telegram chat.
type Telegram struct {
	cfg     *TelegramConfig
	senders map[string]Sender
	logger  zerolog.Logger
}

// Ensure the telegram notifier implements the Notifier interface.
var _ shared.Notifier = (*Telegram)(nil)

// NewTelegram initializes a new telegram notifier, creating one sender per distinct bot token.
func NewTelegram(cfg *TelegramConfig) (*Telegram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.NewSender == nil {
		cfg.NewSender = BotSender
	}
	if cfg.MaxRetryTimeout == 0 {
		cfg.MaxRetryTimeout = defaultMaxRetryTimeout
	}

	senders := make(map[string]Sender)
	for _, recipient := range cfg.Recipients {
		if _, ok := senders[recipient.Token]; ok {
			continue
		}

		sender, err := cfg.NewSender(recipient.Token)
		if err != nil {
			return nil, fmt.Errorf("creating sender: %w", err)
		}
		senders[recipient.Token] = sender
	}

	return &Telegram{
		cfg:     cfg,
		senders: senders,
		logger:  cfg.Logger.With().Str("component", "notify").Logger(),
	}, nil
}

// isPermanent returns whether the provided delivery error cannot succeed on retry.
func isPermanent(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.Code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	default:
		return false
	}
}

// deliver sends the provided text to the recipient, retrying transient failures.
func (t *Telegram) deliver(ctx context.Context, recipient Recipient, text string) error {
	sender := t.senders[recipient.Token]

	operation := func() error {
		tgMsg := tgbotapi.NewMessage(recipient.ChatID, text)
		tgMsg.ParseMode = tgbotapi.ModeMarkdown

		_, err := sender.Send(tgMsg)
		if err != nil {
			if isPermanent(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = t.cfg.MaxRetryTimeout

	return backoff.Retry(operation, backoff.WithContext(strategy, ctx))
}

// Notify delivers the provided message to every recipient. The delivery is ok only
// when every recipient received the message.
func (t *Telegram) Notify(ctx context.Context, msg *shared.Message) shared.DeliveryResult {
	text := alert.Render(msg)

	var failures []string
	for _, recipient := range t.cfg.Recipients {
		err := t.deliver(ctx, recipient, text)
		if err != nil {
			t.logger.Error().Err(err).Int64("chat", recipient.ChatID).
				Str("symbol", msg.Symbol).Msg("failed to deliver alert")
			failures = append(failures, fmt.Sprintf("chat %d: %v", recipient.ChatID, err))
			continue
		}

		t.logger.Info().Int64("chat", recipient.ChatID).Str("symbol", msg.Symbol).
			Str("decision", msg.Decision.String()).Msg("alert delivered")
	}

	if len(failures) > 0 {
		return shared.DeliveryResult{
			OK: false,
			Detail: fmt.Sprintf("%d/%d deliveries failed: %s", len(failures),
				len(t.cfg.Recipients), strings.Join(failures, "; ")),
		}
	}

	return shared.DeliveryResult{
		OK:     true,
		Detail: fmt.Sprintf("delivered to %d chats", len(t.cfg.Recipients)),
	}
}
