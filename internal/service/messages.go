package service

// Respostas fixas do assistente. O texto segue os modelos por comando;
// nada aqui é gerado pelo modelo de linguagem.

const helpMessage = `
Aqui estão algumas coisas que você pode fazer:
- Adicionar uma despesa: 'camisa 20'
- Adicionar uma receita: 'salário 1850'
- Ver seu saldo: 'mostrar saldo'
- Ver últimas transações: 'listar transações'
- Apagar todas as transações: 'apagar tudo'
- Gerar um relatório: 'relatório do mês'
- Adicionar uma categoria: 'adicionar categoria transporte'
- Listar categorias: 'listar categorias'
- Ativar modo lembrete: 'ativar modo lembrete'
- Desativar modo lembrete: 'desativar modo lembrete'
Se precisar de mais ajuda, diga 'ajuda'.
`

const (
	msgSomethingWrong = "Ops, algo deu errado. Tenta de novo!"
	msgNotUnderstood  = "Não entendi sua mensagem. " + helpMessage
	msgGreetingReply  = "Olá! " + helpMessage

	msgClarifyPrompt   = "Não tenho certeza se isso é uma receita ou uma despesa. Por favor, esclareça respondendo 'receita' ou 'despesa'."
	msgClarifyReprompt = "Por favor, responda com 'receita' ou 'despesa'."
	msgClarifyTimeout  = "Tempo esgotado, deixei esse lançamento de lado. Manda de novo quando quiser."

	msgDeleteConfirmPrompt = "Tem certeza que deseja apagar todas as suas transações? Isso não pode ser desfeito. Responda 'sim' para confirmar."
	msgDeleteDone          = "Todas as transações foram apagadas."
	msgDeleteCancelled     = "Ação cancelada."
	msgDeleteTimeout       = "Ação cancelada por timeout."

	msgApprovalDeclined = "Ok, não adicionei a categoria."
	msgApprovalTimeout  = "Tempo esgotado, não adicionei a categoria."

	msgCategoryExists = "Essa categoria já existe."
	msgNoCategories   = "Você não tem nenhuma categoria ainda."
	msgNoTransactions = "Nenhuma transação por aqui."

	msgReminderOn  = "Modo lembrete ativado. Vou te avisar quanto você ainda pode gastar após cada despesa."
	msgReminderOff = "Modo lembrete desativado."

	msgOverLimit = "\nVocê passou do limite! 👎"
)

// greetings são saudações que recebem a ajuda direto, sem classificar.
var greetings = []string{"olá", "bom dia", "boa tarde", "boa noite"}

// monthNames em português para o cabeçalho do relatório.
var monthNames = []string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}
