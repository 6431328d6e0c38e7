package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"lokalmarket/internal/adapter/api"
	"lokalmarket/internal/adapter/api/handler"
	apimiddleware "lokalmarket/internal/adapter/api/middleware"
	"lokalmarket/internal/adapter/api/router"
	"lokalmarket/internal/adapter/repository"
	"lokalmarket/internal/domain/service"
	"lokalmarket/internal/infrastructure/storage"
	"lokalmarket/internal/usecase"
	"lokalmarket/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			log.Fatalf("FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH must be set")
		}
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	paymentRepo := repository.NewFirestorePaymentIntentRepository(firestoreClient)
	transactionRepo := repository.NewFirestoreTransactionRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)

	paymentGateway := service.NewStripePaymentService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	geocoder := service.NewNominatimGeocoder(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent)

	publicationUseCase := usecase.NewPublicationUseCase(paymentRepo, paymentGateway, geocoder, cfg.ListingFeeAmount, cfg.ListingFeeCurrency)
	listingUseCase := usecase.NewListingUseCase(listingRepo)
	messageUseCase := usecase.NewMessageUseCase(messageRepo)
	transactionUseCase := usecase.NewTransactionUseCase(transactionRepo, listingRepo, messageRepo)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, transactionRepo)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	paymentHandler := handler.NewPaymentHandler(publicationUseCase, paymentGateway)
	listingHandler := handler.NewListingHandler(listingUseCase)
	transactionHandler := handler.NewTransactionHandler(transactionUseCase)
	reviewHandler := handler.NewReviewHandler(reviewUseCase)
	messageHandler := handler.NewMessageHandler(messageUseCase)
	fileHandler := handler.NewFileHandler(storageClient, listingUseCase)

	router.Setup(e, authMiddleware, paymentHandler, listingHandler, transactionHandler, reviewHandler, messageHandler, fileHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
