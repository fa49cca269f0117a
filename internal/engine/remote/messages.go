package remote

import "fmt"

const (
	LabelFullScholarship    = "Bolsa Integral"
	LabelPartialScholarship = "Bolsa Parcial"
	LabelSelected           = "Selecionado"
	LabelNotSelected        = "Não selecionado"
)

// defaultMessage is used when the backend sends a label without a message.
func defaultMessage(label, course, institution string) string {
	switch foldLabel(label) {
	case foldLabel(LabelFullScholarship):
		return fmt.Sprintf("Parabéns! Com base no seu perfil, você tem grandes chances de conseguir uma Bolsa Integral (100%%) no curso de %s na %s.", course, institution)
	case foldLabel(LabelPartialScholarship):
		return fmt.Sprintf("Com base no seu perfil, você tem chances de conseguir uma Bolsa Parcial (50%%) no curso de %s na %s.", course, institution)
	}
	if IsNotEligible(label) {
		return fmt.Sprintf("Com base no seu perfil, suas chances de bolsa no curso de %s na %s são baixas.", course, institution)
	}
	return fmt.Sprintf("Com base no seu perfil, a simulação para o curso de %s na %s resultou em: %s.", course, institution, label)
}
