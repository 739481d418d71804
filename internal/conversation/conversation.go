package conversation

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifica o tipo de interação pendente de um usuário.
type Kind int

const (
	// KindClarification: não se sabe se o lançamento é receita ou
	// despesa; aguardando "receita"/"despesa".
	KindClarification Kind = iota
	// KindDeleteConfirm: exclusão total pendente; aguardando "sim".
	KindDeleteConfirm
	// KindCategoryApproval: o modelo sugeriu uma categoria nova;
	// aguardando "sim"/"não". Carrega o lançamento a concluir como
	// continuação explícita, em vez de uma espera aninhada bloqueante.
	KindCategoryApproval
)

// PendingAdd é a continuação de um lançamento em andamento. Type fica
// vazio enquanto o esclarecimento receita/despesa não chega; Suggested
// é preenchido quando há categoria aguardando aprovação.
type PendingAdd struct {
	Type        string
	Description string
	Amount      decimal.Decimal
	Suggested   string
}

// State é o valor da interação pendente: uma variante etiquetada.
type State struct {
	Kind Kind
	Add  PendingAdd
}

// ExpireFunc é chamada quando uma interação pendente expira sem
// resposta. Roda fora de qualquer lock do Manager.
type ExpireFunc func(userID int64, st State)

type entry struct {
	state    State
	deadline time.Time
	timer    *time.Timer
}

// Manager guarda no máximo uma interação pendente por usuário, cada
// uma com seu timer cancelável. Resposta e timeout disputam a entrada;
// quem chega primeiro vence com exclusividade: Take remove a entrada
// sob o mutex, e um timer atrasado encontra a entrada trocada ou
// ausente e não faz nada.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	pending  map[int64]*entry
	onExpire ExpireFunc
}

func NewManager(ttl time.Duration, onExpire ExpireFunc) *Manager {
	return &Manager{
		ttl:      ttl,
		pending:  make(map[int64]*entry),
		onExpire: onExpire,
	}
}

// Begin instala uma interação pendente com prazo novo. Uma pendência
// anterior do mesmo usuário é descartada; o roteamento garante que
// isso não acontece, mas o Manager não depende disso.
func (m *Manager) Begin(userID int64, st State) {
	m.install(userID, st, time.Now().Add(m.ttl))
}

// Reinstall devolve uma interação retirada com Take mantendo o prazo
// original: o re-aviso de esclarecimento não reinicia o timer.
func (m *Manager) Reinstall(userID int64, st State, deadline time.Time) {
	m.install(userID, st, deadline)
}

func (m *Manager) install(userID int64, st State, deadline time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.pending[userID]; ok {
		old.timer.Stop()
	}

	e := &entry{state: st, deadline: deadline}
	e.timer = time.AfterFunc(time.Until(deadline), func() {
		m.expire(userID, e)
	})
	m.pending[userID] = e
}

// Take retira atomicamente a interação pendente do usuário, parando o
// timer. O texto recebido de um usuário com pendência ativa é sempre a
// resposta a ela, nunca reclassificado.
func (m *Manager) Take(userID int64) (State, time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.pending[userID]
	if !ok {
		return State{}, time.Time{}, false
	}
	e.timer.Stop()
	delete(m.pending, userID)
	return e.state, e.deadline, true
}

// Active informa se o usuário tem interação pendente.
func (m *Manager) Active(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pending[userID]
	return ok
}

func (m *Manager) expire(userID int64, e *entry) {
	m.mu.Lock()
	if m.pending[userID] != e {
		// A resposta chegou primeiro (ou a pendência foi trocada);
		// o timer atrasado não tem mais nada a fazer.
		m.mu.Unlock()
		return
	}
	delete(m.pending, userID)
	m.mu.Unlock()

	if m.onExpire != nil {
		m.onExpire(userID, e.state)
	}
}
