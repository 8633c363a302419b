package database

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"

	"golang.org/x/crypto/ssh"
)

// SetupTunnel forwards a local port to the PostgreSQL server through an SSH
// jump host. It returns a connection string pointing at the local end and a
// cleanup func that closes the listener and the SSH client.
func SetupTunnel(config Config) (string, func(), error) {
	key, err := os.ReadFile(config.SSHKey)
	if err != nil {
		return "", nil, fmt.Errorf("unable to read private key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return "", nil, fmt.Errorf("unable to parse private key: %w", err)
	}

	sshConfig := &ssh.ClientConfig{
		User:            config.SSHUser,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	sshClient, err := ssh.Dial("tcp", net.JoinHostPort(config.SSHHost, fmt.Sprint(config.SSHPort)), sshConfig)
	if err != nil {
		return "", nil, fmt.Errorf("unable to connect to SSH server: %w", err)
	}

	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		sshClient.Close()
		return "", nil, fmt.Errorf("unable to setup local listener: %w", err)
	}

	remote := net.JoinHostPort(config.Host, fmt.Sprint(config.Port))
	go forward(listener, sshClient, remote)

	local := config
	local.Host = "localhost"
	local.Port = listener.Addr().(*net.TCPAddr).Port

	cleanup := func() {
		listener.Close()
		sshClient.Close()
	}

	return local.DSN(), cleanup, nil
}

func forward(listener net.Listener, client *ssh.Client, remote string) {
	for {
		localConn, err := listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Printf("Error accepting connection: %v", err)
			}
			return
		}

		remoteConn, err := client.Dial("tcp", remote)
		if err != nil {
			log.Printf("Error dialing %s: %v", remote, err)
			localConn.Close()
			continue
		}

		go copyConn(localConn, remoteConn)
		go copyConn(remoteConn, localConn)
	}
}

func copyConn(dst, src net.Conn) {
	defer dst.Close()
	defer src.Close()
	if _, err := io.Copy(dst, src); err != nil && !errors.Is(err, net.ErrClosed) {
		log.Printf("Error copying connection: %v", err)
	}
}
