package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"financas-bot/internal/charts"
	"financas-bot/internal/repository"
	"financas-bot/internal/service"
)

// Scheduler envia o relatório mensal automático: no primeiro dia de
// cada mês, cada usuário recebe o fechamento do mês ANTERIOR. Calcular
// o mês que acabou de começar renderia um relatório sempre vazio.
type Scheduler struct {
	repo    repository.Repository
	tracker *service.Tracker
	sender  service.Sender
	log     zerolog.Logger

	now func() time.Time
}

func New(repo repository.Repository, tracker *service.Tracker, sender service.Sender, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		repo:    repo,
		tracker: tracker,
		sender:  sender,
		log:     log,
		now:     time.Now,
	}
}

// Run bloqueia até o contexto encerrar, disparando o envio a cada
// virada de mês.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := nextMonthStart(s.now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.sendReports(ctx, next)
		}
	}
}

// sendReports despacha o relatório do mês anterior a fireTime para
// todos os usuários. A falha com um usuário não interrompe os demais.
func (s *Scheduler) sendReports(ctx context.Context, fireTime time.Time) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list users for monthly reports failed")
		return
	}

	previous := fireTime.AddDate(0, -1, 0)
	s.log.Info().Int("users", len(users)).Str("month", previous.Format("2006-01")).Msg("sending monthly reports")

	for _, user := range users {
		if err := s.sendOne(ctx, user.ID, previous); err != nil {
			s.log.Error().Err(err).Int64("user_id", user.ID).Msg("monthly report delivery failed")
		}
	}
}

func (s *Scheduler) sendOne(ctx context.Context, userID int64, month time.Time) error {
	text, report, err := s.tracker.MonthlyReport(ctx, userID, month)
	if err != nil {
		return err
	}
	if report == nil {
		// Mês sem movimento não gera envio automático.
		return nil
	}

	png, err := charts.RenderMonthly(report)
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("chart rendering failed")
	}
	if png != nil {
		return s.sender.SendPhoto(userID, png, text)
	}
	return s.sender.SendText(userID, text)
}

// nextMonthStart devolve a meia-noite do dia 1 do mês seguinte a ref,
// no fuso de ref.
func nextMonthStart(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, 1, 0)
}
