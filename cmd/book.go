/*
Copyright © 2024 Brian Mulinge

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/Brianmulinge/wanderi/booking"
	"github.com/Brianmulinge/wanderi/colors"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var bookFlags struct {
	url      string
	name     string
	age      string
	contact  string
	email    string
	phone    string
	services []string
	date     string
	time     string
}

// bookCmd submits a consultation request from the terminal, going through
// the same form controller the website uses.
var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book a consultation with the agency",
	Long: `Submits a consultation request to a running wanderi server, e.g:

wanderi book --name "Jane Doe" --age 34 --email jane@example.com \
  --service term-life --date 2025-06-01 --time "10:00 AM"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBook()
	},
}

func init() {
	rootCmd.AddCommand(bookCmd)

	bookCmd.Flags().StringVar(&bookFlags.url, "url", "http://localhost:3000", "address of the wanderi server")
	bookCmd.Flags().StringVar(&bookFlags.name, "name", "", "your full name")
	bookCmd.Flags().StringVar(&bookFlags.age, "age", "", "your age")
	bookCmd.Flags().StringVar(&bookFlags.contact, "contact", "email", "preferred contact method: email or phone")
	bookCmd.Flags().StringVar(&bookFlags.email, "email", "", "your email address")
	bookCmd.Flags().StringVar(&bookFlags.phone, "phone", "", "your phone number (10 digits)")
	bookCmd.Flags().StringSliceVar(&bookFlags.services, "service", nil, "service of interest: term-life, annuity or iul (repeatable)")
	bookCmd.Flags().StringVar(&bookFlags.date, "date", "", "preferred date (YYYY-MM-DD)")
	bookCmd.Flags().StringVar(&bookFlags.time, "time", "", `preferred time slot e.g. "10:00 AM"`)
}

func runBook() error {
	form := booking.NewForm(booking.NewClient(bookFlags.url))

	form.Set("name", bookFlags.name)
	form.Set("age", bookFlags.age)
	form.Set("contactMethod", bookFlags.contact)
	form.Set("email", bookFlags.email)
	form.Set("phone", bookFlags.phone)
	form.SetServices(bookFlags.services)
	form.Set("date", bookFlags.date)
	form.Set("time", bookFlags.time)

	err := form.Submit(context.Background())
	if errors.Is(err, booking.ErrFieldsInvalid) {
		fields := form.FieldErrors()

		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("%s %s %s\n", colors.Red("✗"), name, fields[name])
		}
		return errors.New("consultation request was not submitted")
	}
	if err != nil {
		fmt.Println(colors.Red(form.SubmitError()))
		return err
	}

	receipt := form.Receipt()
	fmt.Printf("%s %s\n", colors.Green("✓"), receipt.Message)
	if receipt.ID != "" {
		fmt.Printf("reference: %s\n", colors.Yellow(receipt.ID))
	}
	return nil
}
