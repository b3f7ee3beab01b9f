package middleware

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"finplan/backend/services"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type contextKey string

// UserIDKey carries the resolved owner id through the request context.
const UserIDKey contextKey = "user_id"

var firebaseAuth *auth.Client

// InitializeFirebase sets up Firebase ID-token verification for hosted
// deployments. When no credentials are configured the backend runs on local
// session tokens only.
func InitializeFirebase() error {
	credentialsJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if credentialsJSON == "" {
		log.Println("No Firebase credentials configured, accepting local session tokens only")
		return nil
	}

	opt := option.WithCredentialsJSON([]byte(credentialsJSON))
	config := &firebase.Config{ProjectID: os.Getenv("FIREBASE_PROJECT_ID")}

	app, err := firebase.NewApp(context.Background(), config, opt)
	if err != nil {
		return err
	}

	firebaseAuth, err = app.Auth(context.Background())
	if err != nil {
		return err
	}

	log.Println("Firebase Admin SDK initialized, accepting Firebase ID tokens")
	return nil
}

// AuthMiddleware resolves the owning account for every protected request.
// It accepts locally issued session tokens and, when Firebase is
// configured, Firebase ID tokens. Requests without a valid credential never
// reach the store.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS preflight carries no credentials.
		if r.Method == "OPTIONS" {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r.Header.Get("Authorization"))
		if token == "" {
			http.Error(w, "Unauthorized: no token provided", http.StatusUnauthorized)
			return
		}

		ownerID, err := resolveOwner(r.Context(), token)
		if err != nil {
			log.Printf("Token verification failed: %v", err)
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveOwner tries the local session token first, then the Firebase path
// when it is configured.
func resolveOwner(ctx context.Context, token string) (string, error) {
	ownerID, err := services.ParseToken(token)
	if err == nil {
		return ownerID, nil
	}

	if firebaseAuth != nil {
		fbToken, fbErr := firebaseAuth.VerifyIDToken(ctx, token)
		if fbErr == nil {
			return fbToken.UID, nil
		}
	}

	return "", err
}

// extractToken gets the bearer token from the Authorization header.
func extractToken(authHeader string) string {
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, "Bearer ")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// GetUserIDFromContext retrieves the resolved owner id for the request.
func GetUserIDFromContext(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
