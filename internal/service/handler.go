package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"financas-bot/internal/charts"
	"financas-bot/internal/conversation"
	"financas-bot/internal/model"
	"financas-bot/internal/repository"
)

// Sender é a capacidade de saída do assistente. O transporte concreto
// (long polling, webhook) fica fora do serviço.
type Sender interface {
	SendText(userID int64, text string) error
	SendPhoto(userID int64, png []byte, caption string) error
}

// Handler recebe cada mensagem de texto e a conduz pelo protocolo de
// conversa: ou ela responde uma interação pendente, ou vira um comando
// novo. As mensagens de um mesmo usuário chegam serializadas; usuários
// diferentes chegam em paralelo.
type Handler struct {
	tracker  *Tracker
	resolver *Resolver
	repo     repository.Repository
	sender   Sender
	conv     *conversation.Manager
	log      zerolog.Logger
}

func NewHandler(tracker *Tracker, resolver *Resolver, repo repository.Repository, sender Sender, interactionTTL time.Duration, log zerolog.Logger) *Handler {
	h := &Handler{
		tracker:  tracker,
		resolver: resolver,
		repo:     repo,
		sender:   sender,
		log:      log,
	}
	h.conv = conversation.NewManager(interactionTTL, h.handleExpiry)
	return h
}

// HandleMessage processa uma mensagem. Mensagens vazias são ignoradas
// sem resposta; todo o resto termina com exatamente uma resposta e um
// registro de auditoria.
func (h *Handler) HandleMessage(ctx context.Context, userID int64, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	var reply string
	if st, deadline, ok := h.conv.Take(userID); ok {
		reply = h.resumePending(ctx, userID, text, st, deadline)
	} else {
		reply = h.dispatch(ctx, userID, text)
	}
	if reply != "" {
		h.respond(ctx, userID, text, reply)
	}
}

// resumePending trata a mensagem como resposta à interação pendente.
// A pendência já foi retirada; qualquer caminho que precise mantê-la
// viva a reinstala com o prazo original.
func (h *Handler) resumePending(ctx context.Context, userID int64, text string, st conversation.State, deadline time.Time) string {
	answer := strings.ToLower(strings.TrimSpace(text))

	switch st.Kind {
	case conversation.KindDeleteConfirm:
		if answer != "sim" {
			return msgDeleteCancelled
		}
		reply, err := h.tracker.DeleteAll(ctx, userID)
		if err != nil {
			h.log.Error().Err(err).Int64("user_id", userID).Msg("delete all failed")
			return msgSomethingWrong
		}
		return reply

	case conversation.KindClarification:
		if answer != "receita" && answer != "despesa" {
			h.conv.Reinstall(userID, st, deadline)
			return msgClarifyReprompt
		}
		add := st.Add
		add.Type = model.TypeExpense
		if answer == "receita" {
			add.Type = model.TypeIncome
		}
		return h.finishAdd(ctx, userID, text, add)

	case conversation.KindCategoryApproval:
		if answer != "sim" {
			return msgApprovalDeclined
		}
		confirm, err := h.tracker.AddCategory(ctx, userID, st.Add.Suggested)
		if err != nil {
			h.log.Error().Err(err).Int64("user_id", userID).Msg("add suggested category failed")
			return msgSomethingWrong
		}
		kind := CmdAddExpense
		if st.Add.Type == model.TypeIncome {
			kind = CmdAddIncome
		}
		added, err := h.tracker.AddTransaction(ctx, userID, &Command{
			Kind:        kind,
			Amount:      st.Add.Amount,
			Description: st.Add.Description,
			Category:    st.Add.Suggested,
		})
		if err != nil {
			h.log.Error().Err(err).Int64("user_id", userID).Msg("add transaction failed")
			return msgSomethingWrong
		}
		return confirm + "\n" + added
	}
	return msgSomethingWrong
}

// dispatch trata a mensagem como comando novo: classifica, resolve e
// executa, ou abre a interação pendente que a resolução pedir.
func (h *Handler) dispatch(ctx context.Context, userID int64, text string) string {
	if isGreeting(text) {
		return msgGreetingReply
	}

	analysis, err := h.resolver.classifier.Classify(ctx, text)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("classification failed")
		return msgSomethingWrong
	}

	user, err := h.repo.GetUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("load user failed")
		return msgSomethingWrong
	}

	resolution, err := h.resolver.Resolve(ctx, analysis, user)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("resolution failed")
		return msgSomethingWrong
	}
	return h.apply(ctx, userID, text, resolution)
}

// apply abre a interação pendente da resolução ou executa o comando.
func (h *Handler) apply(ctx context.Context, userID int64, text string, resolution Resolution) string {
	switch {
	case resolution.Clarify != nil:
		h.conv.Begin(userID, conversation.State{
			Kind: conversation.KindClarification,
			Add:  *resolution.Clarify,
		})
		return msgClarifyPrompt

	case resolution.Approve != nil:
		h.conv.Begin(userID, conversation.State{
			Kind: conversation.KindCategoryApproval,
			Add:  *resolution.Approve,
		})
		return fmt.Sprintf("Não achei categoria pra %q. Sugiro %q. Tá ok? (sim/não)",
			resolution.Approve.Description, resolution.Approve.Suggested)

	case resolution.Command != nil:
		return h.execute(ctx, userID, text, resolution.Command)
	}
	return msgSomethingWrong
}

// finishAdd conclui um lançamento desambiguado: resolve a categoria e
// executa, ou abre a aprovação de categoria nova.
func (h *Handler) finishAdd(ctx context.Context, userID int64, text string, add conversation.PendingAdd) string {
	user, err := h.repo.GetUser(ctx, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("load user failed")
		return msgSomethingWrong
	}
	resolution, err := h.resolver.ResolveAdd(ctx, add, user)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("resolution failed")
		return msgSomethingWrong
	}
	return h.apply(ctx, userID, text, resolution)
}

func (h *Handler) execute(ctx context.Context, userID int64, text string, cmd *Command) string {
	var (
		reply string
		err   error
	)
	switch cmd.Kind {
	case CmdAddExpense, CmdAddIncome:
		reply, err = h.tracker.AddTransaction(ctx, userID, cmd)
	case CmdSetBalance:
		reply, err = h.tracker.SetBalance(ctx, userID, cmd.Amount)
	case CmdSetLimit:
		reply, err = h.tracker.SetLimit(ctx, userID, cmd.Amount)
	case CmdShowBalance:
		reply, err = h.tracker.ShowBalance(ctx, userID)
	case CmdListTransactions:
		reply, err = h.tracker.ListTransactions(ctx, userID)
	case CmdAddCategory:
		reply, err = h.tracker.AddCategory(ctx, userID, cmd.Name)
	case CmdListCategories:
		reply, err = h.tracker.ListCategories(ctx, userID)
	case CmdActivateReminder:
		reply, err = h.tracker.SetReminderMode(ctx, userID, true)
	case CmdDeactivateReminder:
		reply, err = h.tracker.SetReminderMode(ctx, userID, false)
	case CmdHelp:
		reply = helpMessage
	case CmdReport:
		return h.sendReport(ctx, userID, text)
	case CmdDeleteAll:
		// Exclusão total nunca executa direto; sempre pede confirmação.
		h.conv.Begin(userID, conversation.State{Kind: conversation.KindDeleteConfirm})
		return msgDeleteConfirmPrompt
	default:
		return msgNotUnderstood
	}
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("command failed")
		return msgSomethingWrong
	}
	return reply
}

// sendReport envia o relatório do mês corrente, com gráfico quando há
// despesas para desenhar.
func (h *Handler) sendReport(ctx context.Context, userID int64, text string) string {
	caption, report, err := h.tracker.MonthlyReport(ctx, userID, time.Now())
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("monthly report failed")
		return msgSomethingWrong
	}
	if report == nil {
		return caption
	}
	png, err := charts.RenderMonthly(report)
	if err != nil {
		h.log.Warn().Err(err).Int64("user_id", userID).Msg("chart rendering failed")
		return caption
	}
	if png == nil {
		return caption
	}
	if err := h.sender.SendPhoto(userID, png, caption); err != nil {
		h.log.Warn().Err(err).Int64("user_id", userID).Msg("send photo failed, falling back to text")
		return caption
	}
	// A foto já saiu com o texto na legenda; registra e encerra.
	h.audit(ctx, userID, text, caption)
	return ""
}

// handleExpiry roda quando uma interação pendente estoura o prazo.
// Todo timeout gera aviso; deixar o usuário sem resposta faz a próxima
// mensagem dele ser interpretada como resposta fantasma.
func (h *Handler) handleExpiry(userID int64, st conversation.State) {
	var notice string
	switch st.Kind {
	case conversation.KindClarification:
		notice = msgClarifyTimeout
	case conversation.KindDeleteConfirm:
		notice = msgDeleteTimeout
	case conversation.KindCategoryApproval:
		notice = msgApprovalTimeout
	}
	if err := h.sender.SendText(userID, notice); err != nil {
		h.log.Warn().Err(err).Int64("user_id", userID).Msg("send timeout notice failed")
	}
}

// respond envia a resposta e registra o par mensagem/resposta.
func (h *Handler) respond(ctx context.Context, userID int64, incoming, reply string) {
	if err := h.sender.SendText(userID, reply); err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("send failed")
	}
	h.audit(ctx, userID, incoming, reply)
}

func (h *Handler) audit(ctx context.Context, userID int64, incoming, reply string) {
	entry := &model.LogEntry{
		UserID:    userID,
		Timestamp: time.Now(),
		Message:   incoming,
		Response:  reply,
	}
	if err := h.repo.AppendLog(ctx, entry); err != nil {
		h.log.Warn().Err(err).Int64("user_id", userID).Msg("audit log failed")
	}
}

func isGreeting(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	lower = strings.TrimRight(lower, "!.")
	for _, g := range greetings {
		if lower == g {
			return true
		}
	}
	return false
}
