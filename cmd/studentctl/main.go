// studentctl is an operator CLI for the Student Manager API. It keeps
// the session token in ~/.student-manager/credentials.json and refuses
// to call protected endpoints once the token has expired.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sthmu/Student-Manager/client"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var serverURL string
	var api *client.Client

	root := &cobra.Command{
		Use:           "studentctl",
		Short:         "Manage student records over the Student Manager API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			store, err := client.DefaultCredentialStore()
			if err != nil {
				return err
			}
			api = client.New(serverURL, store)
			if api.IsAuthenticated() && api.TokenExpiringSoon() {
				fmt.Fprintln(os.Stderr, "note: session expires within 5 minutes, consider logging in again")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&serverURL, "server", envOr("STUDENT_MANAGER_URL", "http://localhost:5000"), "API base URL")

	root.AddCommand(
		newLoginCmd(&api),
		newLogoutCmd(&api),
		newRegisterCmd(&api),
		newWhoamiCmd(&api),
		newListCmd(&api),
		newGetCmd(&api),
		newAddCmd(&api),
		newUpdateCmd(&api),
		newRemoveCmd(&api),
		newSearchCmd(&api),
	)
	return root
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func ctx() context.Context { return context.Background() }

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func parseIDs(args []string) ([]uint, error) {
	ids := make([]uint, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseUint(a, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", a)
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

func newLoginCmd(api **client.Client) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := (*api).Login(ctx(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s (%s)\n", res.User.Username, res.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(api **client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*api).Logout(ctx()); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func newRegisterCmd(api **client.Client) *cobra.Command {
	var username, email, password, adminCode string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (requires the admin registration code)",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := (*api).Register(ctx(), username, email, password, adminCode)
			if err != nil {
				return err
			}
			fmt.Printf("registered %s (%s)\n", res.User.Username, res.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username (3-50 chars, letters/digits/underscore)")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (min 6 chars)")
	cmd.Flags().StringVar(&adminCode, "admin-code", "", "admin registration code")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("admin-code")
	return cmd
}

func newWhoamiCmd(api **client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := (*api).CurrentUser()
			if err != nil {
				return err
			}
			return printJSON(u)
		},
	}
}

func newListCmd(api **client.Client) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		RunE: func(cmd *cobra.Command, args []string) error {
			students, err := (*api).ListStudents(ctx(), status)
			if err != nil {
				return err
			}
			return printJSON(students)
		},
	}
	cmd.Flags().StringVar(&status, "status", "active", "active|inactive|all")
	return cmd
}

func newGetCmd(api **client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			s, err := (*api).GetStudent(ctx(), ids[0])
			if err != nil {
				return err
			}
			return printJSON(s)
		},
	}
}

func studentFlags(cmd *cobra.Command, req *client.StudentRequest) {
	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email (unique)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Course, "course", "", "course")
	cmd.Flags().StringVar(&req.EnrolmentDate, "enrolled", "", "enrolment date (YYYY-MM-DD)")
}

func newAddCmd(api **client.Client) *cobra.Command {
	var req client.StudentRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a student",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := (*api).CreateStudent(ctx(), req)
			if err != nil {
				return err
			}
			fmt.Printf("created student %d\n", s.ID)
			return printJSON(s)
		},
	}
	studentFlags(cmd, &req)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newUpdateCmd(api **client.Client) *cobra.Command {
	var req client.StudentRequest
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a student's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			s, err := (*api).UpdateStudent(ctx(), ids[0], req)
			if err != nil {
				return err
			}
			return printJSON(s)
		},
	}
	studentFlags(cmd, &req)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRemoveCmd(api **client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id> [id...]",
		Short: "Soft-delete one or more students",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if len(ids) == 1 {
				if err := (*api).DeleteStudent(ctx(), ids[0]); err != nil {
					return err
				}
				fmt.Println("deleted 1 student")
				return nil
			}
			count, err := (*api).DeleteStudents(ctx(), ids)
			if err != nil {
				return err
			}
			fmt.Printf("deleted %d students\n", count)
			return nil
		},
	}
}

func newSearchCmd(api **client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search active students by name, email or course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			students, count, err := (*api).SearchStudents(ctx(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%d match(es) in %s\n", count, time.Since(start).Round(time.Millisecond))
			return printJSON(students)
		},
	}
}
