package service_test // Используем _test пакет для изоляции

import (
	"context"
	"fmt"
	"testing"
	"time"

	"repair-server/internal/config"
	"repair-server/internal/database"
	"repair-server/internal/models"
	"repair-server/internal/repository"
	"repair-server/internal/service"
	"repair-server/migrations"
	"repair-server/pkg/migration"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	// Докер клиент для проверки доступности
	"github.com/docker/docker/client"
)

// IntegrationTestSuite поднимает PostgreSQL и Redis в контейнерах и гоняет
// сервисы на настоящих хранилищах.
type IntegrationTestSuite struct {
	suite.Suite
	ctx            context.Context
	pgContainer    *postgres.PostgresContainer
	rdContainer    *tcredis.RedisContainer
	pgPool         *pgxpool.Pool
	redisClient    *redis.Client
	config         *config.Config
	userRepo       repository.UserRepository
	requestRepo    repository.RequestRepository
	invoiceRepo    repository.InvoiceRepository
	tokenRepo      repository.TokenRepository
	authService    service.AuthService
	requestService service.RequestService
	invoiceService service.InvoiceService
	logger         *zap.Logger
}

// SetupSuite выполняется один раз перед всеми тестами в наборе
func (s *IntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error

	s.logger, err = zap.NewDevelopment()
	require.NoError(s.T(), err, "Failed to create logger for tests")
	s.logger.Info("Setting up integration test suite...")

	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	pgConnStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "Failed to get postgres connection string")

	s.pgPool, err = pgxpool.New(s.ctx, pgConnStr)
	require.NoError(s.T(), err, "Failed to connect to test postgres")

	// Применяем миграции из встроенной ФС
	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, s.pgPool)
	require.NoError(s.T(), migrator.Up(), "Failed to run migrations")
	s.logger.Info("Database migrations applied")

	s.rdContainer, err = tcredis.Run(s.ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(1*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start redis container")

	redisHost, err := s.rdContainer.Host(s.ctx)
	require.NoError(s.T(), err)
	redisPort, err := s.rdContainer.MappedPort(s.ctx, "6379/tcp")
	require.NoError(s.T(), err)
	redisAddr := fmt.Sprintf("%s:%s", redisHost, redisPort.Port())

	s.redisClient = redis.NewClient(&redis.Options{Addr: redisAddr})
	_, err = s.redisClient.Ping(s.ctx).Result()
	require.NoError(s.T(), err, "Failed to connect to test redis")

	s.config = &config.Config{
		DBUser:          "testuser",
		DBPassword:      "testpass",
		DBName:          "test_db",
		DBSSLMode:       "disable",
		RedisAddr:       redisAddr,
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: 10 * time.Minute,
		JWTSecret:       "test-jwt-secret",
		PasswordPepper:  "test-pepper",
		Env:             "test",
		LogLevel:        "debug",
	}

	s.userRepo = database.NewPgUserRepository(s.pgPool, s.logger)
	s.requestRepo = database.NewPgRequestRepository(s.pgPool, s.logger)
	s.invoiceRepo = database.NewPgInvoiceRepository(s.pgPool, s.logger)
	s.tokenRepo = database.NewRedisTokenRepository(s.redisClient, s.logger)

	s.authService = service.NewAuthService(s.userRepo, s.tokenRepo, s.config, s.logger)
	s.requestService = service.NewRequestService(s.requestRepo, s.userRepo, s.logger)
	s.invoiceService = service.NewInvoiceService(s.invoiceRepo, s.requestRepo, s.userRepo, s.logger)

	s.logger.Info("Test suite setup complete.")
}

// TearDownSuite выполняется один раз после всех тестов в наборе
func (s *IntegrationTestSuite) TearDownSuite() {
	s.logger.Info("Tearing down integration test suite...")
	if s.pgPool != nil {
		s.pgPool.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate postgres container", zap.Error(err))
		}
	}
	if s.rdContainer != nil {
		if err := s.rdContainer.Terminate(s.ctx); err != nil {
			s.logger.Error("Failed to terminate redis container", zap.Error(err))
		}
	}
}

// Перед каждым тестом очищаем Redis и таблицы БД
func (s *IntegrationTestSuite) SetupTest() {
	err := s.redisClient.FlushDB(s.ctx).Err()
	require.NoError(s.T(), err, "Failed to flush Redis DB")

	// ОСТОРОЖНО: НЕ запускать на production БД!
	_, err = s.pgPool.Exec(s.ctx, "TRUNCATE TABLE users RESTART IDENTITY CASCADE")
	require.NoError(s.T(), err, "Failed to truncate users table")
}

// TestIntegrationTestSuite запускает набор тестов
func TestIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Fatalf("Docker client init error: %v. Ensure Docker is running and accessible.", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Fatalf("Docker daemon is not running or accessible: %v", err)
	}
	cli.Close()

	suite.Run(t, new(IntegrationTestSuite))
}

// --- Сами Тестовые Функции ---

func strPtr(s string) *string { return &s }

func (s *IntegrationTestSuite) registerCustomer(username, phone, password string) *models.User {
	user, err := s.authService.Register(s.ctx, service.RegisterInput{
		Username:    username,
		PhoneNumber: strPtr(phone),
		Password:    password,
	})
	require.NoError(s.T(), err)
	return user
}

func (s *IntegrationTestSuite) registerMaster(username, password string) *models.User {
	user, err := s.authService.Register(s.ctx, service.RegisterInput{
		Username: username,
		Password: password,
	})
	require.NoError(s.T(), err)
	return user
}

// TestFullRepairLifecycle прогоняет весь путь: регистрация заказчика, попытка
// повторной регистрации, логин, создание заявки, отказ в счёте до завершения
// ремонта, завершение, выставление счёта, оплата и неизменяемость после оплаты.
func (s *IntegrationTestSuite) TestFullRepairLifecycle() {
	t := s.T()

	// Регистрация заказчика
	customer := s.registerCustomer("Bob", "+380992228811", "123456")
	require.Equal(t, models.RoleCustomer, customer.Role)

	// Повторная регистрация той же пары отклоняется
	_, err := s.authService.Register(s.ctx, service.RegisterInput{
		Username:    "Bob",
		PhoneNumber: strPtr("+380992228811"),
		Password:    "123456",
	})
	require.ErrorIs(t, err, models.ErrCustomerAlreadyExists)

	// Логин по номеру телефона
	tokens, err := s.authService.Login(s.ctx, service.PhonePassword{
		PhoneNumber: "+380992228811",
		Password:    "123456",
	})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)

	claims, err := s.authService.VerifyAccessToken(s.ctx, tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, customer.ID, claims.UserID)

	// Заказчик создаёт заявку, статус всегда PROCESS
	req, err := s.requestService.Create(s.ctx, customer.ID, models.RoleCustomer, service.RequestInput{
		PhoneModel:         "iPhone 11",
		ProblemDescription: "screen is cracked",
	})
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusProcess, req.Status)

	// Пока заявка в ремонте, счёт выставить нельзя
	_, err = s.invoiceService.Create(s.ctx, service.InvoiceInput{Price: 1500, RequestID: req.ID})
	require.ErrorIs(t, err, models.ErrRequestInProgress)

	// Заказчик не может удалить заявку в ремонте
	err = s.requestService.Delete(s.ctx, models.RoleCustomer, req.ID)
	require.ErrorIs(t, err, models.ErrRequestUnderRepair)

	// Мастер завершает ремонт
	master := s.registerMaster("MasterYoda", "654321")
	_, err = s.requestService.Update(s.ctx, master.ID, models.RoleMaster, req.ID, service.RequestInput{
		PhoneModel:         req.PhoneModel,
		ProblemDescription: req.ProblemDescription,
		CustomerID:         &customer.ID,
		Status:             models.RequestStatusDone,
	})
	require.NoError(t, err)

	// Теперь счёт выставляется и начинается с UNPAID
	inv, err := s.invoiceService.Create(s.ctx, service.InvoiceInput{Price: 1500, RequestID: req.ID})
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusUnpaid, inv.Status)

	// Заказчик видит счёт в своих billings
	billings, err := s.invoiceService.BillingsForOwner(s.ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, billings, 1)

	// Оплата
	paid, err := s.invoiceService.Update(s.ctx, inv.ID, service.InvoiceInput{
		Price:  1500,
		Status: models.InvoiceStatusPaid,
	})
	require.NoError(t, err)
	require.Equal(t, models.InvoiceStatusPaid, paid.Status)

	// Оплаченный счёт неизменяем, цена остаётся прежней
	_, err = s.invoiceService.Update(s.ctx, inv.ID, service.InvoiceInput{
		Price:  9999,
		Status: models.InvoiceStatusUnpaid,
	})
	require.ErrorIs(t, err, models.ErrInvoicePaid)

	stored, err := s.invoiceService.Get(s.ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, float64(1500), stored.Price)
	require.Equal(t, models.InvoiceStatusPaid, stored.Status)
}

func (s *IntegrationTestSuite) TestRegistrationValidation() {
	t := s.T()

	// Телефон без кода +38 отклоняется
	_, err := s.authService.Register(s.ctx, service.RegisterInput{
		Username:    "Alice",
		PhoneNumber: strPtr("+420991112233"),
		Password:    "123456",
	})
	require.ErrorIs(t, err, models.ErrInvalidPhoneNumber)

	// Имя, занятое мастером, недоступно заказчику
	s.registerMaster("TakenName", "654321")
	_, err = s.authService.Register(s.ctx, service.RegisterInput{
		Username:    "TakenName",
		PhoneNumber: strPtr("+380991112233"),
		Password:    "123456",
	})
	require.ErrorIs(t, err, models.ErrUserAlreadyExists)
}

func (s *IntegrationTestSuite) TestLoginFailures() {
	t := s.T()
	s.registerCustomer("Carol", "+380991234567", "secret99")

	// Неизвестный номер
	_, err := s.authService.Login(s.ctx, service.PhonePassword{
		PhoneNumber: "+380990000000",
		Password:    "secret99",
	})
	require.ErrorIs(t, err, models.ErrUserNotFound)

	// Неверный пароль
	_, err = s.authService.Login(s.ctx, service.PhonePassword{
		PhoneNumber: "+380991234567",
		Password:    "wrong",
	})
	require.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func (s *IntegrationTestSuite) TestLogoutRevokesTokens() {
	t := s.T()
	s.registerCustomer("Dave", "+380997654321", "davepass")

	tokens, err := s.authService.Login(s.ctx, service.PhonePassword{
		PhoneNumber: "+380997654321",
		Password:    "davepass",
	})
	require.NoError(t, err)

	require.NoError(t, s.authService.Logout(s.ctx, tokens.AccessUUID, tokens.RefreshToken))

	// Access-токен после выхода отозван
	_, err = s.authService.VerifyAccessToken(s.ctx, tokens.AccessToken)
	require.ErrorIs(t, err, models.ErrTokenInvalid)

	// Повторный logout тем же refresh-токеном невозможен
	err = s.authService.Logout(s.ctx, tokens.AccessUUID, tokens.RefreshToken)
	require.ErrorIs(t, err, models.ErrTokenNotFound)
}

func (s *IntegrationTestSuite) TestCustomerScopingAndFilters() {
	t := s.T()
	bob := s.registerCustomer("Bob", "+380992228811", "123456")
	alice := s.registerCustomer("Alice", "+380993334455", "123456")
	master := s.registerMaster("MasterYoda", "654321")

	_, err := s.requestService.Create(s.ctx, bob.ID, models.RoleCustomer, service.RequestInput{
		PhoneModel:         "iPhone 11",
		ProblemDescription: "cracked screen",
	})
	require.NoError(t, err)
	_, err = s.requestService.Create(s.ctx, alice.ID, models.RoleCustomer, service.RequestInput{
		PhoneModel:         "Pixel 6",
		ProblemDescription: "battery drains fast",
	})
	require.NoError(t, err)

	// Заказчик видит только свои заявки
	bobRequests, err := s.requestService.List(s.ctx, bob.ID, models.RoleCustomer)
	require.NoError(t, err)
	require.Len(t, bobRequests, 1)
	require.Equal(t, bob.ID, bobRequests[0].CustomerID)

	// Мастер видит все
	all, err := s.requestService.List(s.ctx, master.ID, models.RoleMaster)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Фильтры мастера
	byCustomer, err := s.requestService.FilterByCustomer(s.ctx, "Alice")
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	require.Equal(t, "Pixel 6", byCustomer[0].PhoneModel)

	byProblem, err := s.requestService.FilterByProblem(s.ctx, "battery")
	require.NoError(t, err)
	require.Len(t, byProblem, 1)

	byStatusModel, err := s.requestService.FilterByStatusAndModel(s.ctx, models.RequestStatusProcess, "iPhone 11")
	require.NoError(t, err)
	require.Len(t, byStatusModel, 1)
	require.Equal(t, bob.ID, byStatusModel[0].CustomerID)
}

// TestCascadeDelete проверяет, что удаление заявки уносит за собой её счета.
func (s *IntegrationTestSuite) TestCascadeDelete() {
	t := s.T()
	bob := s.registerCustomer("Bob", "+380992228811", "123456")
	master := s.registerMaster("MasterYoda", "654321")

	req, err := s.requestService.Create(s.ctx, bob.ID, models.RoleCustomer, service.RequestInput{
		PhoneModel:         "iPhone 11",
		ProblemDescription: "water damage",
	})
	require.NoError(t, err)

	_, err = s.requestService.Update(s.ctx, master.ID, models.RoleMaster, req.ID, service.RequestInput{
		PhoneModel:         req.PhoneModel,
		ProblemDescription: req.ProblemDescription,
		CustomerID:         &bob.ID,
		Status:             models.RequestStatusDone,
	})
	require.NoError(t, err)

	inv, err := s.invoiceService.Create(s.ctx, service.InvoiceInput{Price: 2500, RequestID: req.ID})
	require.NoError(t, err)

	// Завершённую заявку заказчик может удалить
	require.NoError(t, s.requestService.Delete(s.ctx, models.RoleCustomer, req.ID))

	_, err = s.invoiceService.Get(s.ctx, inv.ID)
	require.ErrorIs(t, err, models.ErrInvoiceNotFound)

	var count int
	require.NoError(t, s.pgPool.QueryRow(s.ctx, "SELECT COUNT(*) FROM invoices").Scan(&count))
	require.Zero(t, count)
}

// TestOwnershipForcing: заявка заказчика всегда привязывается к нему самому,
// даже если в запросе указан чужой идентификатор.
func (s *IntegrationTestSuite) TestOwnershipForcing() {
	t := s.T()
	bob := s.registerCustomer("Bob", "+380992228811", "123456")
	alice := s.registerCustomer("Alice", "+380993334455", "123456")

	req, err := s.requestService.Create(s.ctx, bob.ID, models.RoleCustomer, service.RequestInput{
		PhoneModel:         "iPhone 11",
		ProblemDescription: "does not charge",
		CustomerID:         &alice.ID, // должен быть проигнорирован
	})
	require.NoError(t, err)
	require.Equal(t, bob.ID, req.CustomerID)
}

// TestUnknownCustomerRejected: мастер не может создать заявку на несуществующего заказчика.
func (s *IntegrationTestSuite) TestUnknownCustomerRejected() {
	t := s.T()
	master := s.registerMaster("MasterYoda", "654321")

	phantom := uuid.New()
	_, err := s.requestService.Create(s.ctx, master.ID, models.RoleMaster, service.RequestInput{
		PhoneModel:         "iPhone 11",
		ProblemDescription: "ghost request",
		CustomerID:         &phantom,
	})
	require.ErrorIs(t, err, models.ErrUserNotFound)
}
