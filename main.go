package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	seedDemoCmd := flag.Bool("seed-demo", false, "Preload demo bank account and transactions at startup")
	flag.Parse()

	store := NewStore()

	if *seedDemoCmd {
		if err := seedDemoData(store); err != nil {
			log.Fatalf("Seeding demo data failed: %v", err)
		}
		log.Println("Demo data seeded")
	}

	// Initialize Redis
	redisClient, err := initRedis()
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis: %v", err)
		log.Println("Continuing without Redis cache...")
		redisClient = nil
	}

	server := NewServer(store, redisClient)

	// Simulated provider latency is tunable for local development.
	if raw := os.Getenv("SYNC_DELAY_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms >= 0 {
			server.engine.delay = time.Duration(ms) * time.Millisecond
		} else {
			log.Printf("Warning: ignoring invalid SYNC_DELAY_MS %q", raw)
		}
	}

	// Setup Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	registerRoutes(r, server)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// registerRoutes attaches the full API surface. Split out so handler tests
// can stand up the same routing table.
func registerRoutes(r *gin.Engine, s *Server) {
	r.GET("/health", s.healthCheck)

	r.GET("/api/transactions", s.getTransactions)
	r.POST("/api/transactions", s.addTransaction)
	r.DELETE("/api/transactions", s.deleteTransaction)
	r.GET("/api/categories", s.getCategories)

	r.GET("/api/banks", s.getBanks)
	r.POST("/api/banks", s.addBank)
	r.PATCH("/api/banks", s.patchBank)
	r.DELETE("/api/banks", s.deleteBank)
	r.POST("/api/banks/sync", s.syncBank)
	r.GET("/api/banks/sync-history", s.getSyncHistory)

	r.GET("/api/blockchain/transactions", s.getBlockchainTransactions)
	r.POST("/api/blockchain/transactions", s.createBlockchainTransaction)
	r.POST("/api/blockchain/gas", s.estimateGas)
	r.GET("/api/contracts", s.getContractState)
	r.POST("/api/contracts", s.contractInteract)
	r.GET("/api/nft/receipts", s.getNFTReceipts)
	r.POST("/api/nft/receipts", s.mintNFTReceipt)
	r.GET("/api/tokens/balances", s.getTokenBalances)
	r.GET("/api/wallet", s.getWallet)
	r.POST("/api/wallet", s.walletAction)
}
