package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/bingoserver/models"
	"github.com/wfunc/bingoserver/network"
)

const cardPrice = 1.0

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, v interface{}) error {
	var data []byte
	if v != nil {
		var err error
		data, err = json.Marshal(v)
		if err != nil {
			return err
		}
	}

	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

// generateCard builds a standard bingo card: column n draws five distinct
// numbers from its 15-number band, the centre cell is free.
func generateCard(rng *rand.Rand) models.Card {
	column := func(low int) []int {
		perm := rng.Perm(15)[:5]
		nums := make([]int, 5)
		for i, p := range perm {
			nums[i] = low + p
		}
		return nums
	}

	card := models.Card{
		Col1: column(1),
		Col2: column(16),
		Col3: column(31),
		Col4: column(46),
		Col5: column(61),
	}
	card.Col3[2] = 0 // free centre
	return card
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	token := flag.String("token", os.Getenv("BINGO_TOKEN"), "login token")
	cards := flag.Int("cards", 1, "cards to buy on ready")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws", RawQuery: "token=" + url.QueryEscape(*token)}
	log.Printf("Connecting to %s", u.Host)

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	fmt.Println("Commands: create | list | join <roomId> | ready | mark <number> <cellId> | bingo | chat <text> | leave | quit")

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			fields := strings.Fields(text)
			if len(fields) == 0 {
				continue
			}

			var err error
			switch fields[0] {
			case "create":
				err = send(c, network.MsgTypeCreateRoom, network.CreateRoomRequest{Name: "Demo Room"})
			case "list":
				err = send(c, network.MsgTypeListRooms, nil)
			case "join":
				if len(fields) < 2 {
					fmt.Println("usage: join <roomId>")
					continue
				}
				err = send(c, network.MsgTypeJoinRoom, network.JoinRoomRequest{RoomID: fields[1]})
			case "ready":
				bought := make(map[string]models.Card, *cards)
				for i := 1; i <= *cards; i++ {
					bought[fmt.Sprintf("card%d", i)] = generateCard(rng)
				}
				err = send(c, network.MsgTypeReadyToPlay, network.ReadyToPlayRequest{
					Cards:     bought,
					TotalCost: cardPrice * float64(len(bought)),
				})
			case "mark":
				if len(fields) < 3 {
					fmt.Println("usage: mark <number> <cellId>")
					continue
				}
				number, convErr := strconv.Atoi(fields[1])
				if convErr != nil {
					fmt.Println("usage: mark <number> <cellId>")
					continue
				}
				err = send(c, network.MsgTypeMarkAttempt, network.MarkAttemptRequest{Number: number, CellID: fields[2]})
			case "bingo":
				err = send(c, network.MsgTypeDeclareBingo, nil)
			case "chat":
				err = send(c, network.MsgTypeRoomChat, network.RoomChatRequest{Message: strings.Join(fields[1:], " ")})
			case "leave":
				err = send(c, network.MsgTypeLeaveRoom, nil)
			case "quit":
				return
			default:
				fmt.Println("unknown command:", fields[0])
				continue
			}
			if err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
