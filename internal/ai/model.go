package ai

import "context"

// TextModel é o colaborador externo de linguagem: recebe um prompt e
// devolve a melhor completação possível. Pode falhar ou demorar; quem
// chama decide o timeout via contexto.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
