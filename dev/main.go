package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

const (
	smtpContainer = "coursemon-fake-smtp"
	smtpImage     = "haravich/fake-smtp-server"
)

// a local override that sends every notification to the fake smtp server,
// its inbox is served on http://localhost:1080
const localConfig = `{
  portal: {
    cookie: "%s",
  },
  smtp: {
    host: "localhost",
    port: 1025,
    from: "coursemon@localhost",
    password: "dev",
    to: ["me@localhost"],
    insecure_skip_verify: true,
  },
  log: {
    level: "debug",
  },
}
`

func cmd(name string, args ...string) error {
	c := exec.Command(name, args...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	fmt.Printf("$ %s %s\n", name, strings.Join(args, " "))
	return c.Run()
}

func startSmtp(recreate bool) error {
	if recreate {
		// fails when the container does not exist yet
		_ = cmd("docker", "rm", "-f", smtpContainer)
	}
	err := exec.Command("docker", "inspect", smtpContainer).Run()
	if err == nil {
		return cmd("docker", "start", smtpContainer)
	}
	return cmd(
		"docker", "run", "-d",
		"--name", smtpContainer,
		"-p", "1025:1025",
		"-p", "1080:1080",
		smtpImage,
	)
}

func writeLocalConfig(cookie string, recreate bool) error {
	const path = "config.local.json5"
	_, err := os.Stat(path)
	if err == nil && !recreate {
		fmt.Println("local config already exists at", path)
		return nil
	}
	fmt.Println("writing local config to", path)
	return os.WriteFile(path, []byte(fmt.Sprintf(localConfig, cookie)), 0600)
}

func create(cookie string, recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	err = startSmtp(recreate)
	if err != nil {
		return fmt.Errorf("start fake smtp server: %w", err)
	}
	err = writeLocalConfig(cookie, recreate)
	if err != nil {
		return err
	}

	slog.Info("dev environment ready, try `go run ./cmd/coursemon test-email` and open http://localhost:1080")
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	cookie := flag.String("cookie", "JSESSIONID=dev", "the portal cookie to put in the local config")
	flag.Parse()

	err := create(*cookie, *recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}
}
