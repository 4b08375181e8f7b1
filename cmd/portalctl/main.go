// Command portalctl is the terminal client for the file portal. It keeps the
// session in a credentials file, so commands run one at a time and still
// share a login, the same way a browser session survives reloads.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"fileportal/config"
	"fileportal/internal/client"
	"fileportal/internal/domain/entity"

	"github.com/google/uuid"
)

const usage = `Usage: portalctl [-base-url URL] <command> [arguments]

Session:
  register -username NAME -email ADDR -password PASS [-first NAME] [-last NAME]
  login -username NAME -password PASS
  logout
  whoami

Files:
  ls
  upload -file PATH
  download -id ID [-out NAME]
  rm -id ID
  stats

Profile:
  profile
  profile-update [-email ADDR] [-first NAME] [-last NAME]

Addresses:
  addresses
  address-add -street S -city C [-state ST] [-postal-code PC] [-country CO] [-default]
  address-rm -id ID
  address-set-default -id ID

Phone numbers:
  phones
  phone-add -number N [-primary]
  phone-rm -id ID
  phone-set-primary -id ID
`

func main() {
	baseURL := flag.String("base-url", "", "portal API base URL (overrides config)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	app, err := newApp(*baseURL)
	if err != nil {
		fail(err)
	}

	if err := app.run(context.Background(), flag.Arg(0), flag.Args()[1:]); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "portalctl:", err.Error())
	os.Exit(1)
}

type app struct {
	client    *client.Client
	auth      *client.AuthService
	profile   *client.ProfileService
	addresses *client.AddressService
	phones    *client.PhoneService
	stats     *client.StatsService
	transfers *client.TransferManager
	store     client.CredentialStore
}

func newApp(baseURLOverride string) (*app, error) {
	baseURL := "http://localhost:8080/api"
	credentialsFile := filepath.Join(defaultConfigDir(), "credentials.json")
	downloadDir := "."

	if cfg, err := config.New(); err == nil && cfg.Client != nil {
		if cfg.Client.BaseURL != "" {
			baseURL = cfg.Client.BaseURL
		}
		if cfg.Client.CredentialsFile != "" {
			credentialsFile = cfg.Client.CredentialsFile
		}
		if cfg.Client.DownloadDir != "" {
			downloadDir = cfg.Client.DownloadDir
		}
	}
	if baseURLOverride != "" {
		baseURL = baseURLOverride
	}

	store := client.NewFileCredentialStore(credentialsFile)
	c := client.New(baseURL, store, client.WithSessionEndHandler(func() {
		fmt.Fprintln(os.Stderr, "Session expired, please log in again.")
	}))

	return &app{
		client:    c,
		auth:      client.NewAuthService(c),
		profile:   client.NewProfileService(c),
		addresses: client.NewAddressService(c),
		phones:    client.NewPhoneService(c),
		stats:     client.NewStatsService(c),
		transfers: client.NewTransferManager(c, client.NewFileCache(), client.DirPersister{Dir: downloadDir}),
		store:     store,
	}, nil
}

func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "portalctl")
	}

	return "."
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.auth.Logout(ctx)
	case "whoami":
		return a.whoami()
	case "ls":
		return a.list(ctx)
	case "upload":
		return a.upload(ctx, args)
	case "download":
		return a.download(ctx, args)
	case "rm":
		return a.remove(ctx, args)
	case "stats":
		return a.showStats(ctx)
	case "profile":
		return a.showProfile(ctx)
	case "profile-update":
		return a.updateProfile(ctx, args)
	case "addresses":
		return a.listAddresses(ctx)
	case "address-add":
		return a.addAddress(ctx, args)
	case "address-rm":
		return a.removeAddress(ctx, args)
	case "address-set-default":
		return a.setDefaultAddress(ctx, args)
	case "phones":
		return a.listPhones(ctx)
	case "phone-add":
		return a.addPhone(ctx, args)
	case "phone-rm":
		return a.removePhone(ctx, args)
	case "phone-set-primary":
		return a.setPrimaryPhone(ctx, args)
	default:
		flag.Usage()

		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	_ = fs.Parse(args)

	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("register requires -username, -email and -password")
	}

	user, err := a.auth.Register(ctx, client.RegisterParams{
		Username:  *username,
		Email:     *email,
		Password:  *password,
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account %q created. Log in with: portalctl login -username %s -password ...\n", user.Username, user.Username)

	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	if *username == "" || *password == "" {
		return fmt.Errorf("login requires -username and -password")
	}

	user, err := a.auth.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s.\n", user.DisplayName())

	return nil
}

func (a *app) whoami() error {
	cred, ok := a.store.Load()
	if !ok {
		fmt.Println("Not logged in.")

		return nil
	}
	fmt.Println(cred.DisplayName)

	return nil
}

func (a *app) list(ctx context.Context) error {
	files, err := a.transfers.List(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No files uploaded yet.")

		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILENAME\tTYPE\tSIZE\tUPLOADED")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", f.ID, f.Filename, f.FileType, f.Size, f.UploadDate.Format("2006-01-02 15:04"))
	}

	return w.Flush()
}

func (a *app) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	path := fs.String("file", "", "path of the file to upload")
	_ = fs.Parse(args)

	if *path == "" {
		return client.ErrNoFileSelected
	}

	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	record, err := a.transfers.Upload(ctx, f, filepath.Base(*path), printProgress)
	fmt.Println()
	if err != nil {
		return err
	}
	fmt.Printf("Uploaded %s (%s, id %s).\n", record.Filename, record.FileType, record.ID)

	return nil
}

// printProgress redraws a single progress line in place.
func printProgress(p client.TransferProgress) {
	if p.Phase == client.PhaseFailed {
		fmt.Printf("\rUpload failed at %d%%", p.Percent)

		return
	}
	bar := strings.Repeat("#", p.Percent/5) + strings.Repeat("-", 20-p.Percent/5)
	fmt.Printf("\r[%s] %3d%%", bar, p.Percent)
}

func (a *app) download(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("download", flag.ExitOnError)
	id := fs.String("id", "", "file ID")
	out := fs.String("out", "", "output filename (defaults to the ID)")
	_ = fs.Parse(args)

	fileID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("download requires a valid -id")
	}

	filename := *out
	if filename == "" {
		filename = fileID.String()
	}

	if err := a.transfers.Download(ctx, fileID, filename); err != nil {
		return err
	}
	fmt.Printf("Saved %s.\n", filename)

	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	id := fs.String("id", "", "file ID")
	_ = fs.Parse(args)

	fileID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("rm requires a valid -id")
	}

	if err := a.transfers.Delete(ctx, fileID); err != nil {
		return err
	}
	fmt.Println("File deleted.")

	return nil
}

func (a *app) showStats(ctx context.Context) error {
	stats, err := a.stats.Get(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Total files: %d\n", stats.TotalFiles)
	fmt.Println("By type:")
	for _, tc := range stats.FilesByType {
		fmt.Printf("  %-6s %d\n", tc.FileType, tc.Count)
	}
	fmt.Println("By user:")
	for _, uc := range stats.FilesByUser {
		fmt.Printf("  %-20s %d\n", uc.Username, uc.Count)
	}

	return nil
}

func (a *app) showProfile(ctx context.Context) error {
	profile, err := a.profile.Get(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Username: %s\nEmail: %s\nName: %s\n", profile.User.Username, profile.User.Email, profile.User.DisplayName())
	printAddresses(profile.Addresses)
	printPhones(profile.PhoneNumbers)

	return nil
}

func (a *app) updateProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile-update", flag.ExitOnError)
	email := fs.String("email", "", "new email address")
	first := fs.String("first", "", "new first name")
	last := fs.String("last", "", "new last name")
	_ = fs.Parse(args)

	var update client.ProfileUpdate
	if *email != "" {
		update.Email = email
	}
	if *first != "" {
		update.FirstName = first
	}
	if *last != "" {
		update.LastName = last
	}
	if update.Email == nil && update.FirstName == nil && update.LastName == nil {
		return fmt.Errorf("profile-update requires at least one of -email, -first, -last")
	}

	user, err := a.profile.Update(ctx, update)
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated for %s.\n", user.DisplayName())

	return nil
}

func (a *app) listAddresses(ctx context.Context) error {
	addresses, err := a.addresses.List(ctx)
	if err != nil {
		return err
	}
	printAddresses(addresses)

	return nil
}

func printAddresses(addresses []*entity.Address) {
	if len(addresses) == 0 {
		fmt.Println("No addresses.")

		return
	}
	fmt.Println("Addresses:")
	for _, addr := range addresses {
		marker := " "
		if addr.IsDefault {
			marker = "*"
		}
		fmt.Printf("%s %s  %s, %s %s %s (%s)\n", marker, addr.ID, addr.Street, addr.City, addr.State, addr.PostalCode, addr.Country)
	}
}

func (a *app) addAddress(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("address-add", flag.ExitOnError)
	street := fs.String("street", "", "street")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state")
	postalCode := fs.String("postal-code", "", "postal code")
	country := fs.String("country", "", "country")
	isDefault := fs.Bool("default", false, "make this the default address")
	_ = fs.Parse(args)

	if *street == "" || *city == "" {
		return fmt.Errorf("address-add requires -street and -city")
	}

	address, err := a.addresses.Create(ctx, client.AddressParams{
		Street:     *street,
		City:       *city,
		State:      *state,
		PostalCode: *postalCode,
		Country:    *country,
		IsDefault:  *isDefault,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Address added (id %s).\n", address.ID)

	return nil
}

func (a *app) removeAddress(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("address-rm", flag.ExitOnError)
	id := fs.String("id", "", "address ID")
	_ = fs.Parse(args)

	addressID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("address-rm requires a valid -id")
	}
	if err := a.addresses.Delete(ctx, addressID); err != nil {
		return err
	}
	fmt.Println("Address deleted.")

	return nil
}

func (a *app) setDefaultAddress(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("address-set-default", flag.ExitOnError)
	id := fs.String("id", "", "address ID")
	_ = fs.Parse(args)

	addressID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("address-set-default requires a valid -id")
	}

	addresses, err := a.addresses.List(ctx)
	if err != nil {
		return err
	}
	updated, err := a.addresses.SetDefault(ctx, addresses, addressID)
	if err != nil {
		return err
	}
	printAddresses(updated)

	return nil
}

func (a *app) listPhones(ctx context.Context) error {
	phones, err := a.phones.List(ctx)
	if err != nil {
		return err
	}
	printPhones(phones)

	return nil
}

func printPhones(phones []*entity.PhoneNumber) {
	if len(phones) == 0 {
		fmt.Println("No phone numbers.")

		return
	}
	fmt.Println("Phone numbers:")
	for _, phone := range phones {
		marker := " "
		if phone.IsPrimary {
			marker = "*"
		}
		fmt.Printf("%s %s  %s\n", marker, phone.ID, phone.Number)
	}
}

func (a *app) addPhone(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("phone-add", flag.ExitOnError)
	number := fs.String("number", "", "phone number")
	isPrimary := fs.Bool("primary", false, "make this the primary number")
	_ = fs.Parse(args)

	if *number == "" {
		return fmt.Errorf("phone-add requires -number")
	}

	phone, err := a.phones.Create(ctx, client.PhoneParams{Number: *number, IsPrimary: *isPrimary})
	if err != nil {
		return err
	}
	fmt.Printf("Phone number added (id %s).\n", phone.ID)

	return nil
}

func (a *app) removePhone(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("phone-rm", flag.ExitOnError)
	id := fs.String("id", "", "phone number ID")
	_ = fs.Parse(args)

	phoneID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("phone-rm requires a valid -id")
	}
	if err := a.phones.Delete(ctx, phoneID); err != nil {
		return err
	}
	fmt.Println("Phone number deleted.")

	return nil
}

func (a *app) setPrimaryPhone(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("phone-set-primary", flag.ExitOnError)
	id := fs.String("id", "", "phone number ID")
	_ = fs.Parse(args)

	phoneID, err := uuid.Parse(*id)
	if err != nil {
		return fmt.Errorf("phone-set-primary requires a valid -id")
	}

	phones, err := a.phones.List(ctx)
	if err != nil {
		return err
	}
	updated, err := a.phones.SetPrimary(ctx, phones, phoneID)
	if err != nil {
		return err
	}
	printPhones(updated)

	return nil
}
