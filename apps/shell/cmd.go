package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/edutrack/edutrack/core/authz"
	"github.com/edutrack/edutrack/core/nav"
	"github.com/edutrack/edutrack/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	sessions *session.Store
	guard    *nav.Guard
	menu     *nav.Menu
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -username USERNAME [-remember] - log in; the password will be prompted next")
	fmt.Println("  logout                               - end the current session")
	fmt.Println("  whoami                               - show the current session")
	fmt.Println("  menu                                 - show the navigation visible to the current session")
	fmt.Println("  forgotpassword -username U -email E  - request a password reset email")
	fmt.Println("  changepassword                       - change the current user's password (prompted)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUname := loginCmd.String("username", "", "The username. The password will be prompted next.")
	loginRemember := loginCmd.Bool("remember", false, "Remember this user on this machine.")

	forgotCmd := flag.NewFlagSet("forgotpassword", flag.ExitOnError)
	forgotUname := forgotCmd.String("username", "", "The account's username.")
	forgotEmail := forgotCmd.String("email", "", "The account's email address.")

	ctx := context.Background()

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginUname == "" {
			if remembered := cli.sessions.RememberedUsername(); remembered != "" {
				fmt.Printf("Welcome back, %s\n", remembered)
			}
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword("Enter password:")
		if err != nil {
			return err
		}
		if pwd == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginUname, pwd, *loginRemember)
	case "logout":
		cli.sessions.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return cli.whoami()
	case "menu":
		return cli.showMenu()
	case "forgotpassword":
		if err := forgotCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *forgotUname == "" || *forgotEmail == "" {
			forgotCmd.Usage()
			return errHelp
		}
		return cli.forgotPassword(ctx, *forgotUname, *forgotEmail)
	case "changepassword":
		return cli.changePassword(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) login(ctx context.Context, uname, pwd string, remember bool) error {
	if res := cli.guard.CanEnterLogin(); !res.Allowed {
		fmt.Printf("Already logged in; go to %s\n", res.Redirect.Path)
		return nil
	}
	sess, err := cli.sessions.Login(ctx, session.Credentials{
		UserName:   uname,
		Password:   pwd,
		RememberMe: remember,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s\n", sess.Employee.FullName)
	return nil
}

func (cli *commandLine) whoami() error {
	sess, ok := cli.sessions.Current()
	if !ok || !cli.sessions.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s (%s)\n", sess.UserName, sess.Employee.FullName)
	for _, p := range sess.Permissions {
		fmt.Printf("  %s: %s %s\n", p.RoleName, p.AccessType, p.Module)
	}
	return nil
}

func (cli *commandLine) showMenu() error {
	if res := cli.guard.CanEnter(nav.DashboardPath, authz.None()); !res.Allowed {
		fmt.Printf("Not logged in; go to %s\n", res.Redirect.Path)
		return nil
	}
	sess, _ := cli.sessions.Current()
	printItems(cli.menu.Visible(sess.Permissions), 0)
	return nil
}

func printItems(items []nav.MenuItem, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		if it.Badge != "" {
			fmt.Printf("%s%s (%s) [%s]\n", indent, it.Label, it.Route, it.Badge)
		} else {
			fmt.Printf("%s%s (%s)\n", indent, it.Label, it.Route)
		}
		printItems(it.Children, depth+1)
	}
}

func (cli *commandLine) forgotPassword(ctx context.Context, uname, email string) error {
	msg, err := cli.sessions.ForgotPassword(ctx, session.ForgotPassword{Username: uname, Email: email})
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func (cli *commandLine) changePassword(ctx context.Context) error {
	current, err := promptPassword("Enter current password:")
	if err != nil {
		return err
	}
	next, err := promptPassword("Enter new password:")
	if err != nil {
		return err
	}
	msg, err := cli.sessions.ChangePassword(ctx, session.ChangePassword{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
