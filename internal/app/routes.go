package app

import (
	"net/http"

	"github.com/giw-app/giw/internal/handler"
	"github.com/giw-app/giw/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.ErrorHandler, app.Logger, app.DB.User(), &app.Config)

	healthHandler := handler.NewHealthCheckHandler(app.ErrorHandler)

	authHandler := handler.NewAuthHandler(&handler.AuthHandler{
		DB:         app.DB,
		ErrHandler: app.ErrorHandler,
		Helper:     app.Helper,
		Mailer:     app.Mailer,
		Config:     &app.Config,
	})

	userHandler := handler.NewUserHandler(&handler.UserHandler{
		UserRepo:     app.DB.User(),
		ErrHandler:   app.ErrorHandler,
		FileUploader: app.FileUploader,
	})

	walletHandler := handler.NewWalletHandler(&handler.WalletHandler{
		WalletRepo: app.DB.Wallet(),
		UserRepo:   app.DB.User(),
		Circle:     app.Circle,
		ErrHandler: app.ErrorHandler,
	})

	transactionHandler := handler.NewTransactionHandler(&handler.TransactionHandler{
		TransactionRepo: app.DB.Transaction(),
		WalletRepo:      app.DB.Wallet(),
		Circle:          app.Circle,
		ErrHandler:      app.ErrorHandler,
	})

	cardHandler := handler.NewPaymentCardHandler(&handler.PaymentCardHandler{
		CardRepo:   app.DB.PaymentCard(),
		ErrHandler: app.ErrorHandler,
	})

	automationHandler := handler.NewAutomationHandler(&handler.AutomationHandler{
		AutomationRepo: app.DB.Automation(),
		WalletRepo:     app.DB.Wallet(),
		ErrHandler:     app.ErrorHandler,
	})

	chatHandler := handler.NewChatHandler(&handler.ChatHandler{
		Chat:       app.Chat,
		ErrHandler: app.ErrorHandler,
	})

	webhookHandler := handler.NewWebhookHandler(&handler.WebhookHandler{
		Cache:      app.Cache,
		Kafka:      app.Kafka,
		ErrHandler: app.ErrorHandler,
	})

	mux.HandleFunc("GET /status", healthHandler.HandleHealthCheck)

	mux.HandleFunc("POST /auth/register", authHandler.HandleAuthRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleAuthLogin)

	// provider callbacks carry no user session
	mux.HandleFunc("POST /webhooks/transfers", webhookHandler.HandleTransferWebhook)

	authenticated := func(next http.HandlerFunc) http.Handler {
		return middlewareRepo.RequireAuthenticatedUser(next)
	}

	mux.Handle("GET /me", authenticated(userHandler.HandleCurrentUser))
	mux.Handle("PATCH /me/profile-picture", authenticated(userHandler.HandleChangeProfilePicture))
	mux.Handle("PATCH /me/password", authenticated(userHandler.HandleChangePassword))

	mux.Handle("GET /wallets", authenticated(walletHandler.HandleListWallets))
	mux.Handle("POST /wallets/provision", authenticated(walletHandler.HandleProvisionWallet))
	mux.Handle("GET /wallets/{id}", authenticated(walletHandler.HandleWalletDetails))
	mux.Handle("POST /wallets/{id}/link", authenticated(walletHandler.HandleLinkWallet))
	mux.Handle("POST /wallets/{id}/sync-balance", authenticated(walletHandler.HandleSyncBalance))
	mux.Handle("PATCH /wallets/{id}/balance", authenticated(walletHandler.HandleSetBalance))
	mux.Handle("GET /wallets/{id}/transactions", authenticated(transactionHandler.HandleListTransactions))

	mux.Handle("POST /transfers", authenticated(transactionHandler.HandleTransfer))
	mux.Handle("GET /transactions/{id}", authenticated(transactionHandler.HandleTransactionDetails))
	mux.Handle("PATCH /transactions/{id}/status", authenticated(transactionHandler.HandleUpdateTransactionStatus))

	mux.Handle("GET /cards", authenticated(cardHandler.HandleListCards))
	mux.Handle("POST /cards", authenticated(cardHandler.HandleAddCard))
	mux.Handle("PATCH /cards/{id}/default", authenticated(cardHandler.HandleSetDefaultCard))
	mux.Handle("DELETE /cards/{id}", authenticated(cardHandler.HandleDeleteCard))

	mux.Handle("GET /automations", authenticated(automationHandler.HandleListAutomations))
	mux.Handle("POST /automations", authenticated(automationHandler.HandleCreateAutomation))
	mux.Handle("PATCH /automations/{id}/status", authenticated(automationHandler.HandleUpdateAutomationStatus))
	mux.Handle("DELETE /automations/{id}", authenticated(automationHandler.HandleDeleteAutomation))

	mux.Handle("POST /assistant/chat", authenticated(chatHandler.HandleAssistantChat))

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(middlewareRepo.Authenticate(mux)))
}
