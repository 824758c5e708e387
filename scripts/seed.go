package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ototamirci/backend/internal/adapters/database"
	"github.com/ototamirci/backend/internal/adapters/identity"
	"github.com/ototamirci/backend/internal/application/services"
	"github.com/ototamirci/backend/internal/domain/entities"
	"github.com/ototamirci/backend/internal/infrastructure/clients/postgres"
	"github.com/ototamirci/backend/internal/infrastructure/observability"
	"github.com/ototamirci/backend/migrations"
	"github.com/ototamirci/backend/pkg/config"
)

const seedPassword = "password123"

type seedShop struct {
	mechanic string
	email    string
	phone    string
	shop     services.ShopInput
	closed   bool
}

var seedShops = []seedShop{
	{
		mechanic: "Usta Mehmet", email: "mehmet@sanayi.com", phone: "0555 987 65 43",
		shop: services.ShopInput{
			Name: "Yıldız Oto Tamir", Latitude: 41.0122, Longitude: 28.9764,
			Address: "Atatürk Sanayi Sitesi, No: 12", Phone: "0555 123 45 67",
			ImageURL: "https://picsum.photos/400/300?random=3", Categories: []string{"Motor", "Bakım"},
		},
	},
	{
		mechanic: "Usta Kemal", email: "kemal@sanayi.com", phone: "0532 987 65 43",
		shop: services.ShopInput{
			Name: "Demir Kaporta & Boya", Latitude: 41.0052, Longitude: 28.9854,
			Address: "Fatih Oto Sanayi, Blok B", Phone: "0532 987 65 43",
			ImageURL: "https://picsum.photos/400/300?random=4", Categories: []string{"Kaporta"},
		},
	},
	{
		mechanic: "Usta Hasan", email: "hasan@sanayi.com", phone: "0212 444 55 66",
		shop: services.ShopInput{
			Name: "Gürbüz Elektrik", Latitude: 40.9982, Longitude: 28.9684,
			Address: "Maslak Oto Sanayi, 2. Kısım", Phone: "0212 444 55 66",
			ImageURL: "https://picsum.photos/400/300?random=5", Categories: []string{"Elektrik", "Bakım"},
		},
		closed: true,
	},
	{
		mechanic: "Usta Cem", email: "cem@sanayi.com", phone: "0500 111 22 33",
		shop: services.ShopInput{
			Name: "Hızlı Lastik", Latitude: 41.0182, Longitude: 28.9924,
			Address: "Beşiktaş Çarşı Yanı", Phone: "0500 111 22 33",
			ImageURL: "https://picsum.photos/400/300?random=6", Categories: []string{"Lastik"},
		},
	},
	{
		mechanic: "Usta Emre", email: "emre@sanayi.com", phone: "0544 222 33 44",
		shop: services.ShopInput{
			Name: "Pro Performans Servis", Latitude: 41.0012, Longitude: 28.9614,
			Address: "Zeytinburnu Sanayi", Phone: "0544 222 33 44",
			ImageURL: "https://picsum.photos/400/300?random=7", Categories: []string{"Motor", "Elektrik", "Bakım"},
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("ototamirci-seed", cfg.Server.Env)
	logger := observability.GetLogger()

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer pgClient.Close()

	if err := migrations.Up(pgClient.DB()); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate schema")
	}

	if os.Getenv("RESET_DB") == "true" {
		logger.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reviews,
				appointments,
				shop_categories,
				shops,
				users
			CASCADE
		`)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	userRepo := database.NewUserAdapter(pgClient)
	shopRepo := database.NewShopAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	appointmentRepo := database.NewAppointmentAdapter(pgClient)

	tokens := identity.NewJWTProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)
	authService := services.NewAuthService(userRepo, shopRepo, pgClient, tokens, identity.NewBcryptHasher(10))
	shopService := services.NewShopService(shopRepo, nil)
	reviewService := services.NewReviewService(reviewRepo, shopRepo, pgClient, nil)
	appointmentService := services.NewAppointmentService(appointmentRepo, shopRepo, cfg.Appointments.StrictTransitions, nil)

	// 1. Customers
	customers := make([]entities.Identity, 0, 3)
	for i, name := range []string{"Ahmet Yılmaz", "Ayşe Kaya", "Burak Demir"} {
		email := fmt.Sprintf("customer%d@example.com", i+1)
		if i == 0 {
			email = "ahmet@example.com"
		}
		result, err := authService.Register(ctx, services.RegisterInput{
			Name: name, Email: email, Password: seedPassword,
			Role: entities.RoleCustomer, Phone: "0555 123 45 67",
		})
		if err != nil {
			logger.Fatal().Err(err).Str("email", email).Msg("failed to create customer")
		}
		customers = append(customers, identityOf(result.User))
		logger.Info().Str("email", email).Msg("user created")
	}

	// 2. Mechanics, each registering with their shop
	shopIDs := make([]string, 0, len(seedShops))
	for _, s := range seedShops {
		input := s.shop
		result, err := authService.Register(ctx, services.RegisterInput{
			Name: s.mechanic, Email: s.email, Password: seedPassword,
			Role: entities.RoleMechanic, Phone: s.phone, Shop: &input,
		})
		if err != nil {
			logger.Fatal().Err(err).Str("email", s.email).Msg("failed to create mechanic")
		}

		mechanic := identityOf(result.User)
		shop, err := shopRepo.GetByOwner(ctx, mechanic.UserID)
		if err != nil {
			logger.Fatal().Err(err).Str("shop", s.shop.Name).Msg("shop missing after registration")
		}
		if s.closed {
			if _, err := shopService.SetAvailability(ctx, mechanic, shop.ID, false); err != nil {
				logger.Fatal().Err(err).Str("shop", shop.Name).Msg("failed to close shop")
			}
		}
		shopIDs = append(shopIDs, shop.ID)
		logger.Info().Str("shop", shop.Name).Str("owner", s.email).Msg("shop created")
	}

	// 3. Reviews, so ratings come from real aggregates
	reviews := []struct {
		customer int
		shop     int
		rating   int
		comment  string
	}{
		{0, 0, 5, "Çok hızlı ve temiz iş"},
		{1, 0, 4, "Fiyatlar makul"},
		{2, 0, 5, ""},
		{0, 1, 4, "Boya rengi birebir tuttu"},
		{1, 3, 3, "Biraz bekledik"},
		{2, 4, 5, "Motor sesi tamamen geçti"},
		{0, 4, 4, ""},
	}
	for _, r := range reviews {
		if _, err := reviewService.Submit(ctx, customers[r.customer], shopIDs[r.shop], r.rating, r.comment); err != nil {
			logger.Fatal().Err(err).Msg("failed to create review")
		}
	}
	logger.Info().Int("count", len(reviews)).Msg("reviews created")

	// 4. Sample appointment
	tomorrow := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour).Add(10 * time.Hour)
	if _, err := appointmentService.Create(ctx, customers[0], services.AppointmentInput{
		ShopID:          shopIDs[0],
		CarModel:        "Volkswagen Golf 2018",
		AppointmentDate: tomorrow,
		ServiceType:     "Bakım",
		Note:            "Yağ değişimi ve filtreler",
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to create appointment")
	}
	logger.Info().Msg("sample appointment created")

	logger.Info().
		Str("customer", "ahmet@example.com").
		Str("mechanic", "mehmet@sanayi.com").
		Str("password", seedPassword).
		Msg("database seeded")
}

func identityOf(user *entities.User) entities.Identity {
	return entities.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}
}
