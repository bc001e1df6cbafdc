package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// send wraps a payload into an envelope and writes it to the server.
func send(c *websocket.Conn, msgType string, payload interface{}) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = data
	}
	return c.WriteJSON(envelope{Type: msgType, Payload: raw})
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	name := flag.String("name", "tester", "display name")
	cohort := flag.String("cohort", "g5", "cohort to queue in")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})
	questionID := ""

	// Read loop
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV %s: %s", env.Type, string(env.Payload))

			switch env.Type {
			case "matchFound":
				// Auto-ready so two clients can play each other hands-free.
				if err := send(c, "playerReady", nil); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Println("-> SENT: playerReady")
			case "question":
				var q struct {
					Question struct {
						ID     string `json:"id"`
						Prompt string `json:"prompt"`
					} `json:"question"`
				}
				if err := json.Unmarshal(env.Payload, &q); err == nil {
					questionID = q.Question.ID
					log.Printf("Question: %s (answer with 'a <word>')", q.Question.Prompt)
				}
			}
		}
	}()

	profile := map[string]interface{}{
		"display_name": *name,
		"cohort":       *cohort,
	}
	if err := send(c, "register", map[string]interface{}{"profile": profile}); err != nil {
		log.Fatalf("Register failed: %v", err)
	}
	if err := send(c, "joinMatching", map[string]string{"cohort": *cohort}); err != nil {
		log.Fatalf("Join matching failed: %v", err)
	}

	log.Println("Client started. Type 'a <word>' to answer, 'quit' to exit.")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			text = strings.TrimSpace(text)

			if text == "quit" {
				return
			}
			if strings.HasPrefix(text, "a ") {
				answer := strings.TrimSpace(strings.TrimPrefix(text, "a "))
				inner, _ := json.Marshal(map[string]string{
					"question_id": questionID,
					"answer":      answer,
				})
				action := map[string]interface{}{
					"kind":             "answerSubmitted",
					"payload":          json.RawMessage(inner),
					"client_timestamp": time.Now().UnixMilli(),
				}
				if err := send(c, "gameAction", action); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Printf("-> SENT: answer %q", answer)
			}
		}
	}
}
