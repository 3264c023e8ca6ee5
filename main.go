package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/SantaTabla/Shop-Backend/internal/auth"
	"github.com/SantaTabla/Shop-Backend/internal/cart"
	"github.com/SantaTabla/Shop-Backend/internal/catalog"
	"github.com/SantaTabla/Shop-Backend/internal/chat"
	"github.com/SantaTabla/Shop-Backend/internal/checkout"
	"github.com/SantaTabla/Shop-Backend/internal/config"
	"github.com/SantaTabla/Shop-Backend/internal/db"
	"github.com/SantaTabla/Shop-Backend/internal/mail"
	"github.com/SantaTabla/Shop-Backend/internal/middleware"
	"github.com/SantaTabla/Shop-Backend/internal/users"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	db.Connect()

	auth.Init()
	catalog.Init()
	cart.Init()
	checkout.Init()
	chat.Init()
	users.Init()

	store := &auth.GormUserStore{DB: db.DB}
	codec := auth.NewCodec(cfg.JWTSecret)
	engine := auth.NewStrategyEngine(store, cart.Provisioner{}, codec, cfg.Admin)
	sessions := &auth.SessionCache{
		Sessions: &auth.GormSessionStore{DB: db.DB},
		Store:    store,
		Admin:    cfg.Admin,
	}
	mailer := mail.FromConfig(cfg.SMTP)

	authHandlers := &auth.Handlers{
		Engine:   engine,
		Codec:    codec,
		Sessions: sessions,
		Reset:    auth.NewResetCoordinator(store),
		Github:   auth.NewGithubClient(cfg.Github),
		Mailer:   mailer,
		Cfg:      cfg,
	}
	checkoutHandlers := &checkout.Handlers{Mailer: mailer}
	userHandlers := &users.Handlers{Codec: codec, Mailer: mailer}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes(authHandlers))

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.TokenMiddleware(engine))
		r.Mount("/products", catalog.SetupRoutes())
		r.Mount("/carts", cart.SetupRoutes(checkoutHandlers.PurchaseHandler))
		r.Mount("/chat", chat.SetupRoutes())
		r.Mount("/users", users.SetupRoutes(userHandlers))
	})

	fmt.Println("Server listening on port :" + cfg.Port + "...")

	http.ListenAndServe("0.0.0.0:"+cfg.Port, r)
}
