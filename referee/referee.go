// Package referee implements the client side of the external match
// referee's line-oriented TCP protocol: the one-byte colour handshake,
// length-prefixed framed commands, and bare-payload move replies.
package referee

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"othello/board"
)

// lenBufSize is the width of the referee's ASCII decimal length prefix,
// carried verbatim from the original engine's comms.c framing.
const lenBufSize = 2

// CommandKind identifies which of the three referee messages was
// received.
type CommandKind int

const (
	// Unknown marks a command the referee sent that this client does
	// not recognize; per the error-handling policy it is logged and
	// ignored rather than treated as fatal.
	Unknown CommandKind = iota
	GameOver
	GenMove
	PlayMove
)

// Command is one decoded referee message. Move is only populated for
// PlayMove.
type Command struct {
	Kind CommandKind
	Move string
}

// ErrMalformed wraps a non-fatal framing or parse failure: the
// connection is still usable, ReadCommand has already logged the
// error, and the caller should keep reading, per §7's "malformed
// referee message" policy.
type ErrMalformed struct {
	cause error
}

func (e *ErrMalformed) Error() string { return "referee: malformed message: " + e.cause.Error() }
func (e *ErrMalformed) Unwrap() error { return e.cause }

func malformed(cause error) error { return &ErrMalformed{cause: cause} }

// Client is a connected referee session: a socket, a buffered reader
// over it, and the colour the referee assigned at handshake time.
type Client struct {
	conn  net.Conn
	r     *bufio.Reader
	color board.Player
	log   zerolog.Logger
}

// Dial connects to the referee at addr, performs the one-byte colour
// handshake, and returns a ready Client. Any failure here is the
// fatal "network failure" class from §7: the caller should not retry,
// only report and exit.
func Dial(addr string, log zerolog.Logger) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "referee: dial %s", addr)
	}

	c := &Client{
		conn: conn,
		r:    bufio.NewReader(conn),
		log:  log.With().Str("component", "referee").Logger(),
	}

	color, err := c.readColor()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "referee: colour handshake")
	}
	c.color = color
	return c, nil
}

// readColor reads the single ASCII digit the referee sends immediately
// on connect: '1' black, '2' white, anything else (including '0',
// "undecided") defaults to black.
func (c *Client) readColor() (board.Player, error) {
	digit, err := c.r.ReadByte()
	if err != nil {
		return board.Empty, errors.Wrap(err, "read colour byte")
	}
	switch digit {
	case '1':
		return board.Black, nil
	case '2':
		return board.White, nil
	default:
		return board.Black, nil
	}
}

// Color reports the colour assigned at handshake.
func (c *Client) Color() board.Player { return c.color }

// idleTimeout bounds how long ReadCommand may block waiting for the
// referee's next message. It is deliberately generous — long enough to
// never fire while the referee is simply waiting on the opponent to
// move — and exists only to turn a silently dead TCP connection (one
// that never sends a FIN) into a prompt fatal error instead of an
// indefinite hang.
const idleTimeout = 10 * time.Minute

// ReadCommand blocks for the next framed message and decodes it. A
// framing or parse failure is logged here and returned as
// *ErrMalformed: the connection is still open and the caller should
// read again. Any other
// error (closed socket, stalled connection, I/O failure) is fatal per
// §7.
func (c *Client) ReadCommand() (Command, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(idleTimeout)); err != nil {
		return Command{}, errors.Wrap(err, "referee: set read deadline")
	}

	lenBuf := make([]byte, lenBufSize)
	if _, err := readFull(c.r, lenBuf); err != nil {
		return Command{}, errors.Wrap(err, "referee: read length prefix")
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(lenBuf)))
	if err != nil {
		return Command{}, c.logMalformed(malformed(errors.Wrap(err, "parse length prefix")))
	}

	payload := make([]byte, n)
	if _, err := readFull(c.r, payload); err != nil {
		return Command{}, errors.Wrap(err, "referee: read payload")
	}

	cmd, err := parseCommand(string(payload))
	if err != nil {
		return cmd, c.logMalformed(err)
	}
	return cmd, nil
}

// logMalformed warns about a non-fatal malformed-message error before
// returning it, so the caller doesn't have to decide whether a given
// error kind is worth logging.
func (c *Client) logMalformed(err error) error {
	c.log.Warn().Err(err).Msg("malformed referee message")
	return err
}

// parseCommand splits a decoded payload into a command kind and an
// optional move argument, mirroring comms.c's strtok(msg, " ") split.
func parseCommand(payload string) (Command, error) {
	fields := strings.Fields(payload)
	if len(fields) == 0 {
		return Command{}, malformed(errors.New("empty payload"))
	}

	switch fields[0] {
	case "game_over":
		return Command{Kind: GameOver}, nil
	case "gen_move":
		return Command{Kind: GenMove}, nil
	case "play_move":
		if len(fields) < 2 {
			return Command{}, malformed(errors.New("play_move missing move argument"))
		}
		return Command{Kind: PlayMove, Move: fields[1]}, nil
	default:
		return Command{Kind: Unknown}, malformed(errors.Errorf("unrecognized command %q", fields[0]))
	}
}

// SendMove writes sq as a bare "rc\n" payload, unprefixed, per the
// observed protocol (outbound moves carry no length prefix).
func (c *Client) SendMove(sq int) error {
	_, err := c.conn.Write([]byte(board.SquareString(sq) + "\n"))
	return errors.Wrap(err, "referee: send move")
}

// SendPass writes the literal "pass\n" payload.
func (c *Client) SendPass() error {
	_, err := c.conn.Write([]byte("pass\n"))
	return errors.Wrap(err, "referee: send pass")
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// readFull reads exactly len(buf) bytes from r, the way comms.c's
// blocking recv() calls do (a short read never happens with recv on a
// stream socket using the lengths this protocol sends, but bufio.Reader
// does not guarantee that in general).
func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
