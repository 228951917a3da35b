package ipc

import (
	"bufio"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// connTimeout bounds how long a single command connection may take,
// mirroring the teacher pattern's per-connection deadline.
const connTimeout = 5 * time.Second

// Server listens on an AF_UNIX SOCK_STREAM socket and serves one command
// per connection (spec §4.13). Grounded on the accept-loop/per-connection
// shape of _examples/my-take-dev-myT-x/myT-x/internal/ipc/pipe_server.go;
// the single-threaded dispatch spec §5 requires is achieved by making
// Handler calls themselves responsible for synchronizing onto the main
// loop (e.g. via a channel round-trip), not by this package's transport.
type Server struct {
	path    string
	handler Handler

	mu       sync.Mutex
	listener net.Listener
	started  bool
	wg       sync.WaitGroup
}

// NewServer returns a Server that will listen at path and dispatch
// commands to h.
func NewServer(path string, h Handler) *Server {
	return &Server{path: path, handler: h}
}

// Path returns the socket path this server listens on.
func (s *Server) Path() string {
	return s.path
}

// Start removes any stale socket file, binds, and begins accepting
// connections in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("ipc server already started")
	}
	_ = os.Remove(s.path)

	l, err := net.Listen("unix", s.path)
	if err != nil {
		return err
	}
	s.listener = l
	s.started = true
	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and waits for in-flight connections to drain.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	l := s.listener
	s.listener = nil
	s.mu.Unlock()

	var err error
	if l != nil {
		err = l.Close()
	}
	s.wg.Wait()
	_ = os.Remove(s.path)
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		s.mu.Lock()
		l := s.listener
		s.mu.Unlock()
		if l == nil {
			return
		}
		conn, err := l.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// peerCredential reports the connecting process's (pid, uid, gid) via the
// SO_PEERCRED socket option, the "SO_PEERCRED-style" client identification
// spec §B's ambient-stack section names golang.org/x/sys/unix for. Returns
// ok=false for any transport that isn't a *net.UnixConn (tests use an
// in-memory pipe) or if the kernel call fails.
func peerCredential(conn net.Conn) (ucred *unix.Ucred, ok bool) {
	uc, isUnix := conn.(*net.UnixConn)
	if !isUnix {
		return nil, false
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return nil, false
	}
	var cred *unix.Ucred
	var sockErr error
	ctrlErr := raw.Control(func(fd uintptr) {
		cred, sockErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	if ctrlErr != nil || sockErr != nil {
		return nil, false
	}
	return cred, true
}

// handleConn reads exactly one newline-delimited command line (bounded to
// MaxLineBytes), dispatches it, writes the reply, and closes — "each
// connection serves one command then closes" (spec §4.13). Each connection
// is tagged with a random trace id (google/uuid) so paired log lines from
// the same client can be correlated; the id never reaches the wire
// protocol, which stays the plain ok/err text spec §4.13 defines.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	trace := uuid.NewString()
	if cred, ok := peerCredential(conn); ok {
		log.Printf("ipc[%s]: connection from pid=%d uid=%d gid=%d", trace, cred.Pid, cred.Uid, cred.Gid)
	} else {
		log.Printf("ipc[%s]: connection accepted", trace)
	}

	reader := bufio.NewReaderSize(conn, MaxLineBytes+1)
	line, err := reader.ReadString('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		log.Printf("ipc[%s]: line_too_long", trace)
		writeLine(conn, Reply{OK: false, Text: "line_too_long"}.String())
		return
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return
	}
	if len(line) > MaxLineBytes {
		writeLine(conn, Reply{OK: false, Text: "line_too_long"}.String())
		return
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" && errors.Is(err, io.EOF) {
		return
	}

	reply := Dispatch(line, s.handler)
	log.Printf("ipc[%s]: %q -> %q", trace, line, reply.String())
	writeLine(conn, reply.String())
}

func writeLine(conn net.Conn, line string) {
	conn.Write([]byte(line + "\n"))
}
