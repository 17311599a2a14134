package websocket

import (
	"log"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/correcaminos/cuotas/internal/auth"
)

// HandleWebSocket returns an HTTP handler that upgrades connections to
// WebSocket and runs them as Hub clients. It expects an authenticated
// request; the session's household and role decide which messages the
// connection receives.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac := auth.FromContext(r.Context())
		if ac == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Same-origin club deployments only
		})
		if err != nil {
			log.Printf("websocket: accept: %v", err)
			return
		}

		client := NewClient(hub, conn, ac.HouseholdID, ac.Role == "admin")
		client.Run(r.Context())
	}
}
