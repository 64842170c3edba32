package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/telebot.v4"

	"github.com/svarg-dev/profilingbot/internal/app/handlers/http/active_sessions_handler"
	"github.com/svarg-dev/profilingbot/internal/app/handlers/http/auth"
	"github.com/svarg-dev/profilingbot/internal/app/handlers/http/completed_sessions_handler"
	"github.com/svarg-dev/profilingbot/internal/app/handlers/http/reload_config_handler"
	"github.com/svarg-dev/profilingbot/internal/app/handlers/telegram/admin_handler"
	"github.com/svarg-dev/profilingbot/internal/app/handlers/telegram/answer_handler"
	"github.com/svarg-dev/profilingbot/internal/app/handlers/telegram/start_handler"
	"github.com/svarg-dev/profilingbot/internal/app/handlers/telegram/start_test_handler"
	"github.com/svarg-dev/profilingbot/internal/app/handlers/telegram/text_handler"
	"github.com/svarg-dev/profilingbot/internal/app/middleware"
	"github.com/svarg-dev/profilingbot/internal/app/poller"
	quizRepo "github.com/svarg-dev/profilingbot/internal/domain/quiz/repository"
	quizService "github.com/svarg-dev/profilingbot/internal/domain/quiz/service"
	resultsService "github.com/svarg-dev/profilingbot/internal/domain/results/service"
	"github.com/svarg-dev/profilingbot/internal/domain/sessions"
	"github.com/svarg-dev/profilingbot/internal/domain/tests/random"
	testsService "github.com/svarg-dev/profilingbot/internal/domain/tests/service"
	"github.com/svarg-dev/profilingbot/internal/infra/config"
	"github.com/svarg-dev/profilingbot/internal/infra/pending"
	"github.com/svarg-dev/profilingbot/internal/infra/sweeper"
)

type Services struct {
	quizService   *quizService.QuizService
	testService   *testsService.TestService
	resultService *resultsService.ResultService
}

type App struct {
	config  *config.Config
	bot     *telebot.Bot
	db      *pgxpool.Pool
	store   sessions.Store
	pending *pending.Store
	server  *http.Server

	Services
}

func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	app := &App{config: configImpl}

	if configImpl.Storage.Type == "postgres" {
		db, err := InitDatabase(configImpl)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.db = db
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}

	return app, nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices() error {
	repo := quizRepo.NewFileRepository(app.config.Quiz.ConfigDir)
	app.quizService = quizService.NewQuizService(repo)
	if err := app.quizService.Validate(); err != nil {
		return fmt.Errorf("failed to validate quiz configuration: %w", err)
	}

	app.store = sessions.NewStore(app.config.Storage.Type, app.config.Storage.DataDir, app.db)
	if pg, ok := app.store.(*sessions.PostgresStore); ok {
		if err := pg.InitSchema(context.Background()); err != nil {
			return fmt.Errorf("failed to init database schema: %w", err)
		}
	}
	app.pending = pending.NewStore(app.config.PendingTTL())

	app.testService = testsService.NewTestService(app.store, app.quizService, random.NewEngine(nil))
	app.resultService = resultsService.NewResultService(app.quizService)

	return nil
}

// ListenAndServeTelegram запускает сервер Telegram бота
func (app *App) ListenAndServeTelegram() error {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: poller.NewPoller(app.config),
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	if app.config.TelegramBot.Debug {
		app.bot.Use(middleware.Logger(log.New(os.Stdout, "[bot] ", log.LstdFlags)))
	}
	app.bot.Use(middleware.Recover())

	app.bootstrapHandlersTelegram()

	go app.bot.Start()
	go sweeper.NewSweeper(app.store, 24*time.Hour, time.Hour).Run(context.Background())

	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	app.bot.Handle("/start", start_handler.NewStartHandler(app.quizService).GetHandlerFunc())

	adminHandler := admin_handler.NewAdminHandler(app.config, app.store, app.pending)
	app.bot.Handle("/admin", adminHandler.GetHandlerFunc())

	app.bot.Handle(&telebot.InlineButton{Unique: "start_test"},
		start_test_handler.NewStartTestHandler(app.bot, app.testService, app.quizService).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: "admin_stats"}, adminHandler.HandleStats)
	app.bot.Handle(&telebot.InlineButton{Unique: "admin_report"}, adminHandler.HandleReport)

	// Ответы на вопросы приходят как callback с префиксом "ans_"
	answerHandler := answer_handler.NewAnswerHandler(app.bot, app.testService, app.resultService)
	app.bot.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := c.Callback().Data

		cleanedData := strings.TrimSpace(data)
		cleanedData = strings.ReplaceAll(cleanedData, "\f", "")
		cleanedData = strings.ReplaceAll(cleanedData, "\\f", "")

		if strings.HasPrefix(cleanedData, "ans_") {
			return answerHandler.Handle(c)
		}

		return nil
	})

	app.bot.Handle(telebot.OnText, text_handler.NewTextHandler(app.store, app.pending).GetHandlerFunc())
}

// ListenAndServeHTTP запускает HTTP сервер административного API
func (app *App) ListenAndServeHTTP() error {
	mx := http.NewServeMux()

	secret := app.config.Admin.JWTSecret
	mx.Handle("GET /sessions/active", auth.RequireAuth(secret,
		active_sessions_handler.NewActiveSessionsHandler(app.store)))
	mx.Handle("GET /sessions/completed", auth.RequireAuth(secret,
		completed_sessions_handler.NewCompletedSessionsHandler(app.store)))
	mx.Handle("POST /config/reload", auth.RequireAuth(secret,
		reload_config_handler.NewReloadConfigHandler(app.quizService)))

	app.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", app.config.Server.Host, app.config.Server.Port),
		Handler: mx,
	}

	return app.server.ListenAndServe()
}

// ListenAndServe запускает оба сервера (Telegram и HTTP)
func (app *App) ListenAndServe() error {
	// Запускаем Telegram сервер
	if err := app.ListenAndServeTelegram(); err != nil {
		return fmt.Errorf("failed to start Telegram bot: %w", err)
	}

	// Запускаем HTTP сервер
	if err := app.ListenAndServeHTTP(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}
