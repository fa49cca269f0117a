package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prouni-simulator/internal/backend"
	"prouni-simulator/internal/common/config"
	apperrors "prouni-simulator/internal/common/errors"
	"prouni-simulator/internal/common/observability"
	"prouni-simulator/internal/common/validation"
	"prouni-simulator/internal/models"
)

var (
	loginEmail    string
	loginPassword string

	signupName string
	signupAge  int
	signupSex  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with the backend and remember the candidate",
	RunE: func(cmd *cobra.Command, _ []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("PROUNI_SENHA")
		}
		if loginEmail == "" || password == "" {
			return fmt.Errorf("informe --email e --senha (ou PROUNI_SENHA)")
		}
		if err := checkEmail(loginEmail); err != nil {
			return err
		}

		client := backend.NewClient(cfg.Backend, log, observability.NewNoop())
		resp, err := client.Login(cmd.Context(), loginEmail, password)
		if err != nil {
			return err
		}

		if err := saveSession(resp.Candidate); err != nil {
			return err
		}
		okColor.Fprintf(cmd.OutOrStdout(), "Olá, %s! Login realizado.\n", resp.Candidate.Name)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a candidate account and log in",
	RunE: func(cmd *cobra.Command, _ []string) error {
		password := loginPassword
		if password == "" {
			password = os.Getenv("PROUNI_SENHA")
		}
		if signupName == "" || loginEmail == "" || password == "" {
			return fmt.Errorf("informe --nome, --email e --senha")
		}
		if err := checkEmail(loginEmail); err != nil {
			return err
		}

		req := models.SignupRequest{Name: signupName, Email: loginEmail, Password: password}
		if cmd.Flags().Changed("idade") {
			req.Age = &signupAge
		}
		if signupSex != "" {
			req.Sex = &signupSex
		}

		client := backend.NewClient(cfg.Backend, log, observability.NewNoop())
		candidate, err := client.Signup(cmd.Context(), req)
		if err != nil {
			return err
		}

		if err := saveSession(*candidate); err != nil {
			return err
		}
		okColor.Fprintf(cmd.OutOrStdout(), "Cadastro realizado. Candidato #%d.\n", candidate.ID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved login",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := sessionStore().Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
		return nil
	},
}

func checkEmail(email string) error {
	if validation.ValidateEmail(email) {
		return nil
	}
	return apperrors.NewValidationError([]apperrors.FieldError{
		{Field: "email", Message: "E-mail inválido"},
	})
}

func saveSession(c models.Candidate) error {
	session := models.NewSession(c, config.GetDuration(cfg.Session.TTL))
	if err := sessionStore().Save(session); err != nil {
		return err
	}
	log.Info("candidate logged in", map[string]interface{}{"candidateId": c.ID})
	return nil
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVar(&loginEmail, "email", "", "e-mail")
		c.Flags().StringVar(&loginPassword, "senha", "", "senha (ou PROUNI_SENHA)")
	}
	signupCmd.Flags().StringVar(&signupName, "nome", "", "nome completo")
	signupCmd.Flags().IntVar(&signupAge, "idade", 0, "idade")
	signupCmd.Flags().StringVar(&signupSex, "sexo", "", "Masculino | Feminino")

	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd)
}
