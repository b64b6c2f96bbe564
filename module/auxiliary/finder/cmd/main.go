package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/akamensky/argparse"
	"github.com/davecgh/go-spew/spew"
	"github.com/pelletier/go-toml"
	"golang.org/x/term"

	"project/internal/logger"
	"project/internal/system"

	"project/module/auxiliary/finder"
	"project/module/auxiliary/finder/ssh"
)

func main() {
	parser := argparse.NewParser("ssh-finder", "Discover hosts with an open"+
		" ssh service inside the targets and test username/password"+
		" combinations against them.")

	hosts := parser.String("H", "hosts", &argparse.Options{
		Help: "comma-separated hosts or CIDR blocks (e.g. 192.168.1.1,192.168.1.0/24)"})
	hostsFile := parser.String("", "hosts-file", &argparse.Options{
		Help: "file with hosts/CIDR blocks, one per line"})
	users := parser.String("u", "users", &argparse.Options{
		Help: "comma-separated usernames (e.g. admin,root)"})
	usersFile := parser.String("", "users-file", &argparse.Options{
		Help: "file with usernames, one per line"})
	passwords := parser.String("p", "passwords", &argparse.Options{
		Help: "comma-separated passwords"})
	passwordsFile := parser.String("", "passwords-file", &argparse.Options{
		Help: "file with passwords, one per line"})

	logFile := parser.String("l", "log-file", &argparse.Options{
		Default: "ssh_attempts.log", Help: "log file location"})
	quiet := parser.Flag("q", "quiet", &argparse.Options{
		Help: "suppress most output, only warnings and errors"})
	verbose := parser.Flag("v", "verbose", &argparse.Options{
		Help: "show detailed logs"})
	sshOptions := parser.String("", "ssh-options", &argparse.Options{
		Help: "extra ssh options (e.g. \"Ciphers=aes128-ctr\")"})

	first := parser.Flag("c", "connect-on-first-success", &argparse.Options{
		Help: "stop after the first successful login"})

	skipPing := parser.Flag("", "skip-ping", &argparse.Options{
		Help: "skip the ping check for hosts"})
	pingTimeout := parser.Int("", "ping-timeout", &argparse.Options{
		Default: 1, Help: "ping timeout in seconds"})
	pingPoolSize := parser.Int("", "ping-pool-size", &argparse.Options{
		Default: 100, Help: "maximum number of concurrent pings"})

	skipPortCheck := parser.Flag("", "skip-port-check", &argparse.Options{
		Help: "skip checking if the ssh port is open"})
	port := parser.Int("", "port", &argparse.Options{
		Default: 22, Help: "ssh port"})
	portTimeout := parser.Int("", "port-timeout", &argparse.Options{
		Default: 1, Help: "port check timeout in seconds"})

	maxThreads := parser.Int("", "max-threads", &argparse.Options{
		Default: 100, Help: "maximum number of parallel ssh attempts"})
	sshTimeout := parser.Int("", "ssh-timeout", &argparse.Options{
		Default: 30, Help: "ssh attempt timeout in seconds"})

	secret := parser.Flag("s", "secret", &argparse.Options{
		Help: "mask passwords in logs and prompt without echo"})
	configFile := parser.String("", "config", &argparse.Options{
		Help: "load task configuration from a TOML file"})

	err := parser.Parse(os.Args)
	if err != nil {
		system.PrintError(parser.Usage(err))
	}

	var cfg finder.TaskConfig
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		system.CheckError(err)
		err = toml.Unmarshal(data, &cfg)
		system.CheckError(err)
	} else {
		cfg.Targets = readList(*hosts, *hostsFile)
		cfg.Usernames = readList(*users, *usersFile)
		cfg.Passwords = readList(*passwords, *passwordsFile)
		cfg.SkipPing = *skipPing
		cfg.PingTimeout = time.Duration(*pingTimeout) * time.Second
		cfg.PingWorker = *pingPoolSize
		cfg.SkipPortCheck = *skipPortCheck
		cfg.Port = uint16(*port)
		cfg.PortTimeout = time.Duration(*portTimeout) * time.Second
		cfg.Worker = *maxThreads
		cfg.Timeout = time.Duration(*sshTimeout) * time.Second
		cfg.StopOnSuccess = *first
		cfg.SecretMode = *secret
	}
	if len(cfg.Targets) == 0 {
		system.PrintError("no hosts provided! use -H or --hosts")
	}
	if len(cfg.Usernames) == 0 {
		cfg.Usernames = []string{promptLine("enter your ssh username: ")}
	}
	if len(cfg.Passwords) == 0 {
		cfg.Passwords = []string{promptPassword(cfg.SecretMode)}
	}

	level := logger.Info
	switch {
	case *quiet:
		level = logger.Warning
	case *verbose:
		level = logger.Debug
	}
	file, err := system.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	system.CheckError(err)
	defer func() { _ = file.Close() }()
	mLogger := logger.NewMultiLogger(level, os.Stdout, file)
	if *verbose && !cfg.SecretMode {
		mLogger.Println(logger.Debug, "main", "task configuration:\n", spew.Sdump(&cfg))
	}

	opts, err := ssh.ParseOptions(*sshOptions)
	system.CheckError(err)

	module := finder.New(mLogger)
	err = module.Start()
	system.CheckError(err)
	task, err := module.Run(ssh.NewLogin(opts), &cfg)
	system.CheckError(err)

	// kill task on Ctrl+C, the second signal exits directly
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		mLogger.Println(logger.Warning, "main", "received interrupt, stopping task")
		task.Kill()
		<-signalCh
		os.Exit(1)
	}()

	showProgress := !*quiet && !*verbose
	stopCh := make(chan struct{})
	if showProgress {
		go func() {
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					fmt.Printf("\rtrying combinations: %s", task.Progress())
				case <-stopCh:
					return
				}
			}
		}()
	}

	task.Wait()
	close(stopCh)
	if showProgress {
		fmt.Println()
	}
	module.Stop()

	report := task.Report()
	fmt.Println()
	fmt.Println(report)

	if report.Successes > 0 {
		os.Exit(0)
	}
	os.Exit(1)
}

// readList is used to read items from a comma-separated argument or
// from a file with one item per line, empty lines are skipped.
func readList(inline, path string) []string {
	if inline != "" {
		return strings.Split(inline, ",")
	}
	if path == "" {
		return nil
	}
	file, err := os.Open(path) // #nosec
	system.CheckError(err)
	defer func() { _ = file.Close() }()
	var items []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			items = append(items, line)
		}
	}
	system.CheckError(scanner.Err())
	return items
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		system.PrintError("failed to read input")
	}
	return strings.TrimSpace(scanner.Text())
}

func promptPassword(secret bool) string {
	if !secret {
		return promptLine("enter your ssh password: ")
	}
	fmt.Print("enter your ssh password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	system.CheckError(err)
	return string(password)
}
