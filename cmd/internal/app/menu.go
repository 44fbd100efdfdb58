package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"catapult/cmd/internal/chat"
	"catapult/cmd/internal/contacts"
	"catapult/cmd/internal/identity"
)

// errQuit signals a clean user-requested exit back through the menu stack.
var errQuit = errors.New("quit")

// Run drives the interactive client: account bootstrap, then the main menu
// until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	if err := os.MkdirAll(a.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	acct, err := a.ensureAccount(ctx)
	if err != nil {
		if errors.Is(err, errQuit) {
			return nil
		}
		return err
	}
	a.log.Info("account.active", "user_id", acct.ID, "username", acct.Username)

	a.render.Banner(acct.Username, acct.ID)

	book, err := contacts.Load(a.cfg.ContactsFile())
	if err != nil {
		a.log.Warn("contacts.load.fail", "err", err)
		a.render.Error("Could not read contacts file; starting with an empty list.")
		book = contacts.New(a.cfg.ContactsFile())
	}

	err = a.menu(ctx, acct, book)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// readLine blocks for one input line. ok is false when input ended or the
// context was cancelled.
func (a *App) readLine(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-a.lines:
		if !ok {
			return "", false
		}
		return strings.TrimSpace(line), true
	case <-ctx.Done():
		return "", false
	}
}

// ensureAccount loads the cached local account, verifying it still exists in
// the store, or walks the user through registration.
func (a *App) ensureAccount(ctx context.Context) (identity.Account, error) {
	acct, err := identity.LoadLocal(a.cfg.UserFile())
	switch {
	case err == nil:
		_, lerr := a.accounts.LookupByID(ctx, acct.ID)
		if lerr == nil {
			return acct, nil
		}
		if !errors.Is(lerr, identity.ErrNotFound) {
			return identity.Account{}, fmt.Errorf("verify account: %w", lerr)
		}
		a.log.Warn("account.cache.stale", "user_id", acct.ID)
		a.render.Notice("Your saved account no longer exists. Let's create a new one.")
	case errors.Is(err, identity.ErrNotFound):
		a.render.Notice("Welcome to Catapult! Let's create your account.")
	default:
		return identity.Account{}, fmt.Errorf("load local account: %w", err)
	}

	for {
		a.render.Prompt("Choose a username: ")
		name, ok := a.readLine(ctx)
		if !ok {
			return identity.Account{}, errQuit
		}

		acct, err := a.accounts.Register(ctx, name)
		if err != nil {
			if errors.Is(err, identity.ErrEmptyUsername) {
				a.render.Error("Username cannot be empty.")
				continue
			}
			return identity.Account{}, fmt.Errorf("register account: %w", err)
		}

		if err := identity.SaveLocal(a.cfg.UserFile(), acct); err != nil {
			a.log.Warn("account.cache.save.fail", "err", err)
		}
		a.render.Success(fmt.Sprintf("Signed in as %s. Your ID is %s; share it so others can reach you.", acct.Username, acct.ID))
		return acct, nil
	}
}

func (a *App) menu(ctx context.Context, acct identity.Account, book *contacts.Book) error {
	for {
		a.render.Title("Main Menu")
		a.render.Notice("  1) Open chat")
		a.render.Notice("  2) Contacts")
		a.render.Notice("  3) Inbox")
		a.render.Notice("  4) Clear inbox")
		a.render.Notice("  5) Delete account")
		a.render.Notice("  q) Quit")
		a.render.Prompt("> ")

		choice, ok := a.readLine(ctx)
		if !ok {
			return errQuit
		}

		var err error
		switch choice {
		case "1":
			err = a.openChat(ctx, acct, book)
		case "2":
			err = a.contactsMenu(ctx, book)
		case "3":
			err = a.showInbox(ctx, acct, book)
		case "4":
			err = a.clearInbox(ctx, acct)
		case "5":
			err = a.deleteAccount(ctx, acct)
		case "q", "quit", "exit":
			return errQuit
		case "":
			continue
		default:
			a.render.Error("Unknown choice.")
		}
		if err != nil {
			return err
		}
	}
}

// openChat resolves a partner (contact number or raw id) and runs a chat
// session against them.
func (a *App) openChat(ctx context.Context, acct identity.Account, book *contacts.Book) error {
	list := book.List()
	if len(list) > 0 {
		a.render.Title("Contacts")
		for i, e := range list {
			a.render.Notice(fmt.Sprintf("  %d) %s (%s)", i+1, e.Name, e.ID))
		}
	}
	a.render.Prompt("Chat with (number or user ID, blank to cancel): ")

	raw, ok := a.readLine(ctx)
	if !ok {
		return errQuit
	}
	if raw == "" {
		return nil
	}

	partnerID := raw
	if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= len(list) {
		partnerID = list[n-1].ID
	}
	if !identity.ValidID(partnerID) {
		a.render.Error("User IDs are 8 digits.")
		return nil
	}
	if partnerID == acct.ID {
		a.render.Error("That is your own ID.")
		return nil
	}

	partner, err := a.accounts.LookupByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			a.render.Error("No user with that ID.")
			return nil
		}
		a.render.Error("Could not look up that user: " + err.Error())
		return nil
	}

	// First contact with someone new gets cached for next time.
	if !book.Has(partner.ID) {
		book.Add(partner.ID, partner.Username)
		if err := book.Save(); err != nil {
			a.log.Warn("contacts.save.fail", "err", err)
		}
	}

	return a.runSession(ctx, acct, partner.ID, book.Name(partner.ID))
}

func (a *App) runSession(ctx context.Context, acct identity.Account, partnerID, partnerLabel string) error {
	err := chat.Open(ctx, chat.SessionConfig{
		Log:          a.log,
		Store:        a.messages,
		Render:       a.render,
		Lines:        a.lines,
		SelfID:       acct.ID,
		PartnerID:    partnerID,
		PartnerLabel: partnerLabel,
		PollInterval: a.cfg.PollInterval,
		StopGrace:    a.cfg.StopGrace,
	})
	if err != nil {
		a.render.Error("Chat session failed: " + err.Error())
		a.log.Error("chat.session.fail", "partner", partnerID, "err", err)
	}
	return nil
}

func (a *App) contactsMenu(ctx context.Context, book *contacts.Book) error {
	a.render.Title("Contacts")
	list := book.List()
	if len(list) == 0 {
		a.render.Notice("(No contacts yet)")
	}
	for i, e := range list {
		a.render.Notice(fmt.Sprintf("  %d) %s (%s)", i+1, e.Name, e.ID))
	}
	a.render.Notice("  a) Add contact")
	a.render.Notice("  d) Remove contact")
	a.render.Notice("  b) Back")
	a.render.Prompt("> ")

	choice, ok := a.readLine(ctx)
	if !ok {
		return errQuit
	}

	switch choice {
	case "a":
		a.render.Prompt("User ID: ")
		id, ok := a.readLine(ctx)
		if !ok {
			return errQuit
		}
		if !identity.ValidID(id) {
			a.render.Error("User IDs are 8 digits.")
			return nil
		}
		acct, err := a.accounts.LookupByID(ctx, id)
		if err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				a.render.Error("No user with that ID.")
			} else {
				a.render.Error("Could not look up that user: " + err.Error())
			}
			return nil
		}
		a.render.Prompt(fmt.Sprintf("Name for %s (blank keeps %q): ", acct.ID, acct.Username))
		name, ok := a.readLine(ctx)
		if !ok {
			return errQuit
		}
		if name == "" {
			name = acct.Username
		}
		book.Add(acct.ID, name)
		if err := book.Save(); err != nil {
			a.render.Error("Could not save contacts: " + err.Error())
			return nil
		}
		a.render.Success("Contact saved.")
	case "d":
		a.render.Prompt("Remove which number? ")
		raw, ok := a.readLine(ctx)
		if !ok {
			return errQuit
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > len(list) {
			a.render.Error("No such contact.")
			return nil
		}
		book.Remove(list[n-1].ID)
		if err := book.Save(); err != nil {
			a.render.Error("Could not save contacts: " + err.Error())
			return nil
		}
		a.render.Success("Contact removed.")
	}
	return nil
}

// showInbox lists the newest message from each partner; picking a number
// jumps straight into that conversation.
func (a *App) showInbox(ctx context.Context, acct identity.Account, book *contacts.Book) error {
	heads, err := a.messages.LatestPerPartner(ctx, acct.ID, a.cfg.InboxLimit)
	if err != nil {
		a.render.Error("Could not load inbox: " + err.Error())
		return nil
	}
	if len(heads) == 0 {
		a.render.Notice("(Inbox empty)")
		return nil
	}

	a.render.Title("Inbox")
	for i, h := range heads {
		preview := h.LastBody
		if idx := strings.IndexByte(preview, '\n'); idx >= 0 {
			preview = preview[:idx] + " ..."
		}
		a.render.Notice(fmt.Sprintf("  %d) %s: %s  [%s]",
			i+1, book.Name(h.PartnerID), preview, h.LastAt.Format("2006-01-02 15:04")))
	}
	a.render.Prompt("Open which conversation? (blank to go back): ")

	raw, ok := a.readLine(ctx)
	if !ok {
		return errQuit
	}
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > len(heads) {
		a.render.Error("No such conversation.")
		return nil
	}

	partnerID := heads[n-1].PartnerID
	return a.runSession(ctx, acct, partnerID, book.Name(partnerID))
}

func (a *App) clearInbox(ctx context.Context, acct identity.Account) error {
	a.render.Prompt("Delete every message sent to you? [y/N]: ")
	answer, ok := a.readLine(ctx)
	if !ok {
		return errQuit
	}
	if !strings.EqualFold(answer, "y") {
		a.render.Notice("Inbox unchanged.")
		return nil
	}
	if err := a.messages.ClearInbox(ctx, acct.ID); err != nil {
		a.render.Error("Could not clear inbox: " + err.Error())
		return nil
	}
	a.render.Success("Inbox cleared.")
	return nil
}

// deleteAccount removes the account and its messages, then exits: the
// client has no identity left to run under.
func (a *App) deleteAccount(ctx context.Context, acct identity.Account) error {
	a.render.Prompt("Delete your account and all your messages? [y/N]: ")
	answer, ok := a.readLine(ctx)
	if !ok {
		return errQuit
	}
	if !strings.EqualFold(answer, "y") {
		a.render.Notice("Account kept.")
		return nil
	}

	if err := a.accounts.Delete(ctx, acct.ID); err != nil {
		a.render.Error("Could not delete account: " + err.Error())
		return nil
	}
	if err := identity.RemoveLocal(a.cfg.UserFile()); err != nil {
		a.log.Warn("account.cache.remove.fail", "err", err)
	}
	a.log.Info("account.deleted", "user_id", acct.ID)
	a.render.Success("Account deleted. Goodbye.")
	return errQuit
}
