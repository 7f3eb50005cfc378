package cli

import (
	"errors"

	"github.com/julianstephens/dailyboost/internal/auth"
)

func passwordOrPrompt(given, title string) (string, error) {
	if given != "" {
		return given, nil
	}
	return promptPassword(title)
}

type AccountRegisterCmd struct {
	Name     string `arg:"" help:"Full name."`
	Email    string `arg:"" help:"Email address."`
	Password string `help:"Password; prompted for when omitted." env:"DAILYBOOST_PASSWORD"`
}

func (c *AccountRegisterCmd) Run(ctx *Context) error {
	password, err := passwordOrPrompt(c.Password, "Choose a password")
	if err != nil {
		return err
	}
	app, err := ctx.App()
	if err != nil {
		return err
	}
	created, err := app.Accounts.Register(c.Name, c.Email, password)
	if err != nil {
		return err
	}
	if created {
		ctx.printf("Registered and signed in as %s\n", auth.NormalizeEmail(c.Email))
	} else {
		ctx.printf("Updated account %s\n", auth.NormalizeEmail(c.Email))
	}
	return nil
}

type AccountLoginCmd struct {
	Email    string `arg:"" help:"Email address."`
	Password string `help:"Password; prompted for when omitted." env:"DAILYBOOST_PASSWORD"`
	Remember bool   `help:"Stay signed in." default:"true" negatable:""`
}

func (c *AccountLoginCmd) Run(ctx *Context) error {
	password, err := passwordOrPrompt(c.Password, "Password")
	if err != nil {
		return err
	}
	app, err := ctx.App()
	if err != nil {
		return err
	}
	u, err := app.Accounts.SignIn(c.Email, password, c.Remember)
	if errors.Is(err, auth.ErrNoAccount) {
		return auth.ErrWrongCredentials
	}
	if err != nil {
		return err
	}
	ctx.printf("Signed in as %s <%s>\n", u.FullName, u.Email)
	return nil
}

type AccountListCmd struct{}

func (c *AccountListCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	users := app.Accounts.Users()
	if len(users) == 0 {
		ctx.println("No accounts")
		return nil
	}
	current, _ := app.Accounts.Current()

	tbl := newTable()
	tbl.AddRow("", "NAME", "EMAIL")
	for _, u := range users {
		marker := ""
		if u.Email == current.Email {
			marker = okStyle.Render("*")
		}
		tbl.AddRow(marker, u.FullName, u.Email)
	}
	ctx.println(tbl)
	return nil
}

type AccountSwitchCmd struct {
	Email string `arg:"" help:"Email of the account to make active."`
}

func (c *AccountSwitchCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	ok, err := app.Accounts.Switch(c.Email)
	if err != nil {
		return err
	}
	if !ok {
		return auth.ErrNoAccount
	}
	ctx.printf("Switched to %s\n", auth.NormalizeEmail(c.Email))
	return nil
}

type AccountRemoveCmd struct {
	Email string `arg:"" help:"Email of the account to remove."`
}

func (c *AccountRemoveCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	ok, err := app.Accounts.Remove(c.Email)
	if err != nil {
		return err
	}
	if !ok {
		return auth.ErrNoAccount
	}
	ctx.printf("Removed %s\n", auth.NormalizeEmail(c.Email))
	return nil
}

type AccountLogoutCmd struct{}

func (c *AccountLogoutCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.Accounts.Logout(); err != nil {
		return err
	}
	ctx.println("Signed out")
	return nil
}

type AccountClearCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *AccountClearCmd) Run(ctx *Context) error {
	if !c.Yes {
		ok, err := promptConfirm("Remove every account?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Cancelled")
			return nil
		}
	}
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.Accounts.ClearAll(); err != nil {
		return err
	}
	ctx.println("All accounts removed")
	return nil
}
