// feedsim is a local stand-in for the real message gateway. It drips a canned
// set of patron messages onto a queue and serves the REST surface HTTPSource
// polls, so the game can be played in http mode without any live service.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type message struct {
	ID        string `json:"id"`
	Phone     string `json:"phone"`
	Sender    string `json:"senderName"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestampSeconds"`
}

type patron struct {
	phone  string
	sender string
	text   string
}

var script = []patron{
	{"+15550100", "Marge", "one old fashioned, make it quick"},
	{"+15550101", "Deke", "whatever's coldest"},
	{"+15550102", "Priya", "gin and tonic please!!"},
	{"+15550103", "Santos", "you still got that amber ale?"},
	{"+15550104", "Lou", "surprise me, bad day"},
	{"+15550105", "Wren", "two fingers of the good stuff"},
	{"+15550106", "Otis", "soda water, designated driver tonight"},
	{"+15550107", "Faye", "last call already? pour me one"},
}

// queue drips the script onto a pending list; /messages drains it.
type queue struct {
	mu      sync.Mutex
	start   time.Time
	drip    time.Duration
	release int
	pending []message
}

func newQueue(drip time.Duration) *queue {
	return &queue{start: time.Now(), drip: drip}
}

// pop releases any messages whose drip time has passed, then returns up to
// limit of them. The script loops once exhausted so a long session never
// runs dry.
func (q *queue) pop(limit int) []message {
	q.mu.Lock()
	defer q.mu.Unlock()

	due := int(time.Since(q.start)/q.drip) + 1
	for q.release < due {
		p := script[q.release%len(script)]
		gen := q.release / len(script)
		phone := p.phone
		if gen > 0 {
			// Looped entries get fresh phones so they are not deduplicated away
			phone = fmt.Sprintf("%s%02d", p.phone, gen)
		}
		q.pending = append(q.pending, message{
			ID:        strconv.Itoa(q.release + 1),
			Phone:     phone,
			Sender:    p.sender,
			Text:      p.text,
			Timestamp: time.Now().Unix(),
		})
		q.release++
	}

	if limit <= 0 || limit > len(q.pending) {
		limit = len(q.pending)
	}
	out := make([]message, limit)
	copy(out, q.pending[:limit])
	q.pending = q.pending[limit:]
	return out
}

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	drip := flag.Duration("drip", 8*time.Second, "interval between scripted messages")
	flag.Parse()

	q := newQueue(*drip)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.GET("/session", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"active": true})
	})

	e.GET("/messages", func(c echo.Context) error {
		limit, _ := strconv.Atoi(c.QueryParam("limit"))
		return c.JSON(http.StatusOK, map[string]any{
			"success":  true,
			"messages": q.pop(limit),
		})
	})

	e.POST("/respond", func(c echo.Context) error {
		var req struct {
			Phone string `json:"phone"`
			Text  string `json:"text"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "bad request"})
		}
		if req.Phone == "" {
			return c.JSON(http.StatusOK, map[string]any{"success": false, "error": "missing phone"})
		}
		c.Logger().Infof("respond -> %s: %s", req.Phone, req.Text)
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	})

	e.POST("/log", func(c echo.Context) error {
		var req struct {
			Phone  string `json:"phone"`
			Text   string `json:"text"`
			Status string `json:"status"`
		}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false})
		}
		c.Logger().Infof("delivery %s -> %s", req.Status, req.Phone)
		return c.JSON(http.StatusOK, map[string]any{"success": true})
	})

	e.Logger.Fatal(e.Start(*addr))
}
