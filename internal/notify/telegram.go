package notify

import (
	"encoding/json"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier шлёт операторам сообщения о событиях сервиса.
type TelegramNotifier struct {
	sender domain.TelegramSender
	chatID int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(sender domain.TelegramSender, chatID int64, logger *zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		sender: sender,
		chatID: chatID,
		logger: logger,
	}
}

// NewBot создает telegram-клиент по токену.
func NewBot(token string) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return bot, nil
}

// Subscribe подписывает нотификатор на события шины.
func (n *TelegramNotifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, n.onBookingEvent("🆕 Новая заявка на бронирование"))
	bus.Subscribe(events.EventBookingApproved, n.onBookingEvent("✅ Бронирование подтверждено"))
	bus.Subscribe(events.EventBookingRejected, n.onBookingEvent("❌ Бронирование отклонено"))
	bus.Subscribe(events.EventCommentAdded, n.onCommentEvent)
}

func (n *TelegramNotifier) onBookingEvent(title string) events.EventHandler {
	return func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			n.logger.Error().Err(err).Str("event", event.Type).Msg("failed to decode booking event")
			return err
		}

		message := fmt.Sprintf(`%s:

🏢 Вещь: %s
👤 Арендатор: %d
📅 Период: %s — %s
🆔 ID заявки: %d`,
			title,
			payload.ItemName,
			payload.BookerID,
			payload.Start.Format("02.01.2006 15:04"),
			payload.End.Format("02.01.2006 15:04"),
			payload.BookingID)

		return n.send(message)
	}
}

func (n *TelegramNotifier) onCommentEvent(event *events.Event) error {
	var payload events.CommentEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		n.logger.Error().Err(err).Msg("failed to decode comment event")
		return err
	}

	message := fmt.Sprintf(`💬 Новый отзыв:

👤 Автор: %s
🆔 Вещь: %d
📝 %s`,
		payload.AuthorName,
		payload.ItemID,
		payload.Text)

	return n.send(message)
}

func (n *TelegramNotifier) send(text string) error {
	if n.sender == nil || n.chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.sender.Send(msg); err != nil {
		n.logger.Error().Err(err).Msg("failed to send telegram notification")
		return err
	}
	return nil
}
