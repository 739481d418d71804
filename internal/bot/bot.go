package bot

import (
	"context"
	"encoding/json"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// HandlerFunc processa uma mensagem de texto já extraída do update.
type HandlerFunc func(ctx context.Context, userID int64, text string)

// queueSize limita a fila de mensagens por usuário; acima disso a
// mensagem é descartada com aviso no log.
const queueSize = 32

// Bot é o transporte Telegram. Cada usuário tem uma fila própria com
// uma goroutine dedicada: as mensagens dele são processadas uma por
// vez, na ordem de chegada, enquanto usuários diferentes seguem em
// paralelo.
type Bot struct {
	api *tgbotapi.BotAPI
	log zerolog.Logger

	mu     sync.Mutex
	queues map[int64]chan string
}

func New(token string, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		log:    log,
		queues: make(map[int64]chan string),
	}, nil
}

// SendText envia texto simples ao usuário.
func (b *Bot) SendText(userID int64, text string) error {
	_, err := b.api.Send(tgbotapi.NewMessage(userID, text))
	return err
}

// SendPhoto envia uma imagem PNG com legenda.
func (b *Bot) SendPhoto(userID int64, png []byte, caption string) error {
	photo := tgbotapi.NewPhoto(userID, tgbotapi.FileBytes{
		Name:  "relatorio.png",
		Bytes: png,
	})
	photo.Caption = caption
	_, err := b.api.Send(photo)
	return err
}

// Run consome updates por long polling até o contexto encerrar.
func (b *Bot) Run(ctx context.Context, handle HandlerFunc) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info().Str("username", b.api.Self.UserName).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.dispatch(ctx, update, handle)
		}
	}
}

// HandleWebhook processa um update entregue via webhook. O
// processamento é síncrono: a invocação serverless só retorna depois
// da resposta enviada.
func (b *Bot) HandleWebhook(ctx context.Context, body []byte, handle HandlerFunc) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}
	if update.Message == nil || update.Message.From == nil || update.Message.From.IsBot {
		return nil
	}
	if update.Message.Text == "" {
		return nil
	}
	handle(ctx, update.Message.From.ID, update.Message.Text)
	return nil
}

// dispatch enfileira a mensagem na fila do usuário, criando a fila e
// sua goroutine no primeiro contato.
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update, handle HandlerFunc) {
	if update.Message == nil || update.Message.From == nil || update.Message.From.IsBot {
		return
	}
	text := update.Message.Text
	if text == "" {
		return
	}
	userID := update.Message.From.ID

	b.mu.Lock()
	queue, ok := b.queues[userID]
	if !ok {
		queue = make(chan string, queueSize)
		b.queues[userID] = queue
		go b.drain(ctx, userID, queue, handle)
	}
	b.mu.Unlock()

	select {
	case queue <- text:
	default:
		b.log.Warn().Int64("user_id", userID).Msg("user queue full, dropping message")
	}
}

func (b *Bot) drain(ctx context.Context, userID int64, queue chan string, handle HandlerFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-queue:
			handle(ctx, userID, text)
		}
	}
}
