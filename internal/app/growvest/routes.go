// Package growvest собирает HTTP-приложение: маршруты, middleware и сервисы.
package growvest

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	loginhandler "github.com/growvest/growvest/internal/http/handlers/auth/login"
	registerhandler "github.com/growvest/growvest/internal/http/handlers/auth/register"
	catalogcreate "github.com/growvest/growvest/internal/http/handlers/catalog/create"
	cataloglist "github.com/growvest/growvest/internal/http/handlers/catalog/list"
	catalogread "github.com/growvest/growvest/internal/http/handlers/catalog/read"
	contributionlist "github.com/growvest/growvest/internal/http/handlers/contribution/list"
	contributionmemberships "github.com/growvest/growvest/internal/http/handlers/contribution/memberships"
	contributionpay "github.com/growvest/growvest/internal/http/handlers/contribution/pay"
	contributionpurchase "github.com/growvest/growvest/internal/http/handlers/contribution/purchase"
	contributionread "github.com/growvest/growvest/internal/http/handlers/contribution/read"
	cooperativejoin "github.com/growvest/growvest/internal/http/handlers/cooperative/join"
	cooperativeleave "github.com/growvest/growvest/internal/http/handlers/cooperative/leave"
	cooperativememberships "github.com/growvest/growvest/internal/http/handlers/cooperative/memberships"
	cooperativepay "github.com/growvest/growvest/internal/http/handlers/cooperative/pay"
	healthhandler "github.com/growvest/growvest/internal/http/handlers/health"
	investmentlist "github.com/growvest/growvest/internal/http/handlers/investment/list"
	investmentregister "github.com/growvest/growvest/internal/http/handlers/investment/register"
	kycreview "github.com/growvest/growvest/internal/http/handlers/kyc/review"
	kycsubmit "github.com/growvest/growvest/internal/http/handlers/kyc/submit"
	transactionlist "github.com/growvest/growvest/internal/http/handlers/transaction/list"
	transactionread "github.com/growvest/growvest/internal/http/handlers/transaction/read"
	useractivate "github.com/growvest/growvest/internal/http/handlers/user/activate"
	userprofile "github.com/growvest/growvest/internal/http/handlers/user/profile"
	walletbalances "github.com/growvest/growvest/internal/http/handlers/wallet/balances"
	walletchallenge "github.com/growvest/growvest/internal/http/handlers/wallet/challenge"
	walletfund "github.com/growvest/growvest/internal/http/handlers/wallet/fund"
	walletwebhook "github.com/growvest/growvest/internal/http/handlers/wallet/webhook"
	walletwithdraw "github.com/growvest/growvest/internal/http/handlers/wallet/withdraw"
	"github.com/growvest/growvest/internal/http/middlewarectx"
	"github.com/growvest/growvest/internal/lib/jwt"
	userservice "github.com/growvest/growvest/internal/services/user"
)

// Services собирает сервисы, которыми пользуются маршруты.
type Services struct {
	User         *userservice.Service
	Catalog      cataloglist.Service
	CatalogRead  catalogread.Service
	CatalogAdmin catalogcreate.Service
	Contribution contributionService
	Cooperative  cooperativeService
	Investment   investmentService
	Wallet       walletService
	Transaction  transactionService
	Challenge    walletchallenge.Service
}

type contributionService interface {
	contributionpurchase.Service
	contributionpay.Service
	contributionlist.Service
	contributionread.Service
	contributionmemberships.Service
}

type cooperativeService interface {
	cooperativejoin.Service
	cooperativepay.Service
	cooperativeleave.Service
	cooperativememberships.Service
}

type investmentService interface {
	investmentregister.Service
	investmentlist.Service
}

type walletService interface {
	walletbalances.Service
	walletfund.Service
	walletwithdraw.Service
	walletwebhook.Service
}

type transactionService interface {
	transactionlist.Service
	transactionread.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker jwt.Maker, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", registerhandler.New(logger, svc.User).ServeHTTP)
		r.Post("/login", loginhandler.New(logger, svc.User).ServeHTTP)
		r.Get("/packages", cataloglist.New(logger, svc.Catalog).ServeHTTP)
		r.Get("/packages/{id}", catalogread.New(logger, svc.CatalogRead).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Put("/users/profile", userprofile.New(logger, svc.User).ServeHTTP)
			r.Post("/users/activate", useractivate.New(logger, svc.User).ServeHTTP)
			r.Post("/kyc", kycsubmit.New(logger, svc.User).ServeHTTP)

			r.Get("/wallet", walletbalances.New(logger, svc.Wallet).ServeHTTP)
			r.Post("/wallet/fund", walletfund.New(logger, svc.Wallet).ServeHTTP)
			r.Post("/wallet/withdraw/challenge", walletchallenge.New(logger, svc.Challenge).ServeHTTP)
			r.Post("/wallet/withdraw", walletwithdraw.New(logger, svc.Wallet).ServeHTTP)

			r.Get("/transactions", transactionlist.New(logger, svc.Transaction).ServeHTTP)
			r.Get("/transactions/{id}", transactionread.New(logger, svc.Transaction).ServeHTTP)

			// Денежные операции доступны только активированным аккаунтам
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.ActivationMiddleware(logger, svc.User, userservice.IsActivated))

				r.Post("/packages/{family}/{id}/purchase", contributionpurchase.New(logger, svc.Contribution).ServeHTTP)
				r.Get("/contributions", contributionmemberships.New(logger, svc.Contribution).ServeHTTP)
				r.Get("/contributions/{family}", contributionlist.New(logger, svc.Contribution).ServeHTTP)
				r.Get("/contributions/entry/{id}", contributionread.New(logger, svc.Contribution).ServeHTTP)
				r.Post("/contributions/{id}/pay", contributionpay.New(logger, svc.Contribution).ServeHTTP)

				r.Post("/cooperative/{id}/join", cooperativejoin.New(logger, svc.Cooperative).ServeHTTP)
				r.Post("/cooperative/{id}/pay", cooperativepay.New(logger, svc.Cooperative).ServeHTTP)
				r.Post("/cooperative/{id}/leave", cooperativeleave.New(logger, svc.Cooperative).ServeHTTP)
				r.Get("/cooperative/memberships", cooperativememberships.New(logger, svc.Cooperative).ServeHTTP)

				r.Post("/investments/{id}", investmentregister.New(logger, svc.Investment).ServeHTTP)
				r.Get("/investments", investmentlist.New(logger, svc.Investment).ServeHTTP)
			})

			// Администрирование
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Post("/packages", catalogcreate.New(logger, svc.CatalogAdmin).ServeHTTP)
				r.Post("/kyc/{uid}/review", kycreview.New(logger, svc.User).ServeHTTP)
			})
		})

		// Webhook endpoint (без аутентификации, подпись проверяется телом)
		r.Post("/wallet/webhook", walletwebhook.New(logger, svc.Wallet).ServeHTTP)
	})

	r.Get("/health", healthhandler.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
