package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"

	"chatbot-relay/internal/integrations/clova"
	"chatbot-relay/internal/integrations/paramstore"
	"chatbot-relay/internal/metrics"
	"chatbot-relay/internal/server"
	"chatbot-relay/internal/usecase"
)

// Origins of the frontends the relay was built for; override with
// ALLOWED_ORIGINS.
var defaultOrigins = []string{
	"http://localhost:5000",
	"http://localhost:3000",
	"http://localhost:5173",
	"https://movie-fr-six.vercel.app",
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	ctx := context.Background()

	// ---- Configuration (read only here) ----
	port := envDefault("PORT", "10000")
	origins := envList("ALLOWED_ORIGINS", defaultOrigins)
	invokeURL := os.Getenv("CHATBOT_INVOKE_URL")
	secretKey := os.Getenv("CHATBOT_SECRET_KEY")
	paramPrefix := os.Getenv("CHATBOT_PARAM_PREFIX")

	// Missing credentials are not fatal at startup: the relay still serves
	// health endpoints and answers every /chat with a configuration error.
	source, err := credentialsSource(ctx, invokeURL, secretKey, paramPrefix)
	if err != nil {
		slog.Error("failed to build credentials source", "err", err)
		os.Exit(1)
	}

	clovaClient, err := clova.NewClient(source)
	if err != nil {
		slog.Error("failed to create CLOVA client", "err", err)
		os.Exit(1)
	}
	relay, err := usecase.NewRelayService(clovaClient)
	if err != nil {
		slog.Error("failed to create relay service", "err", err)
		os.Exit(1)
	}

	srv, err := server.New(relay, metrics.NewRelayMetrics(), slog.Default(), origins)
	if err != nil {
		slog.Error("failed to create server", "err", err)
		os.Exit(1)
	}

	slog.Info("starting chatbot relay",
		"port", port,
		"invoke_url_set", invokeURL != "",
		"secret_key_set", secretKey != "",
		"param_prefix_set", paramPrefix != "",
	)
	if err := srv.Router().Run(":" + port); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// credentialsSource prefers static environment values and falls back to SSM
// Parameter Store when a prefix is configured.
func credentialsSource(ctx context.Context, invokeURL, secretKey, paramPrefix string) (clova.CredentialsSource, error) {
	if (invokeURL == "" || secretKey == "") && paramPrefix != "" {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, err
		}
		ps, err := paramstore.New(awsssm.NewFromConfig(cfg))
		if err != nil {
			return nil, err
		}
		return clova.NewParamSource(ps, paramPrefix)
	}
	return clova.Static{InvokeURL: invokeURL, SecretKey: secretKey}, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
