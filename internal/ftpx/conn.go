package ftpx

import (
	"io"
	"net"
	"time"

	"github.com/jlaffaye/ftp"
)

const dialTimeout = 10 * time.Second

// Conn is the subset of FTP operations the uploader needs. It exists so
// tests can substitute a fake server connection.
type Conn interface {
	Login(user, password string) error
	ChangeDir(path string) error
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Quit() error
}

// Dialer opens a control connection to an FTP server address.
type Dialer func(addr string) (Conn, error)

// DefaultDialer connects with jlaffaye/ftp, defaulting to port 21 when the
// address carries none.
func DefaultDialer(addr string) (Conn, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, "21")
	}

	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(dialTimeout))
	if err != nil {
		return nil, err
	}
	return conn, nil
}
