package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	redmine "github.com/git-hulk/redmine-go"
	"github.com/git-hulk/redmine-go/pkg/common"
	"github.com/git-hulk/redmine-go/pkg/customfields"
	"github.com/git-hulk/redmine-go/pkg/issues"
	"github.com/git-hulk/redmine-go/pkg/projects"
	"github.com/git-hulk/redmine-go/pkg/timeentries"
	"github.com/git-hulk/redmine-go/pkg/users"
)

// ANSI color codes
const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorGreen = "\033[32m"
	ColorBlue  = "\033[34m"
)

// Helper function to print errors in red
func printError(format string, args ...interface{}) {
	fmt.Printf(ColorRed+format+ColorReset, args...)
}

// Helper function to print info messages in blue
func printInfo(format string, args ...interface{}) {
	fmt.Printf(ColorBlue+format+ColorReset, args...)
}

func runProjectTests(client *redmine.Redmine) string {
	ctx := context.Background()
	projectClient := client.Projects()

	fmt.Println("Testing Project API...")

	fmt.Println("Creating test project...")
	created, err := projectClient.Create(ctx, &projects.CreateRequest{
		Name:        "redmine-go integration",
		Identifier:  "redmine-go-integration",
		Description: "Created by the integration script",
	})
	if err != nil {
		printError("Error creating project: %v\n", err)
		return ""
	}
	fmt.Printf("Created project with ID: %d\n", created.ID)

	fmt.Println("Listing projects...")
	listResponse, err := projectClient.List(ctx, projects.ListParams{Limit: 10})
	if err != nil {
		printError("Error listing projects: %v\n", err)
	} else {
		fmt.Printf("Found %d of %d projects\n", len(listResponse.Projects), listResponse.TotalCount)
	}

	fmt.Println("Getting project by identifier...")
	got, err := projectClient.Get(ctx, created.Identifier)
	if err != nil {
		printError("Error getting project: %v\n", err)
	} else {
		fmt.Printf("Got project: %s\n", got.Name)
	}

	fmt.Println("Updating project description...")
	err = projectClient.Update(ctx, created.Identifier, &projects.UpdateRequest{
		Description: "Updated by the integration script",
	})
	if err != nil {
		printError("Error updating project: %v\n", err)
	}

	fmt.Println("Archiving and unarchiving project...")
	if err := projectClient.Archive(ctx, created.Identifier); err != nil {
		printError("Error archiving project: %v\n", err)
	}
	if err := projectClient.Unarchive(ctx, created.Identifier); err != nil {
		printError("Error unarchiving project: %v\n", err)
	}

	fmt.Println("Project API tests completed!")
	return created.Identifier
}

func runIssueTests(client *redmine.Redmine, projectID int) {
	ctx := context.Background()
	issueClient := client.Issues()

	fmt.Println("Testing Issue API...")

	fmt.Println("Creating test issue...")
	created, err := issueClient.Create(ctx, &issues.CreateRequest{
		ProjectID:   projectID,
		Subject:     "redmine-go integration issue",
		Description: "Created by the integration script",
		CustomFields: customfields.Fields{
			{ID: 1, Value: "integration"},
		},
	})
	if err != nil {
		printError("Error creating issue: %v\n", err)
		return
	}
	fmt.Printf("Created issue with ID: %d\n", created.ID)

	fmt.Println("Listing issues...")
	listResponse, err := issueClient.List(ctx, issues.ListParams{Limit: 10, StatusID: "open"})
	if err != nil {
		printError("Error listing issues: %v\n", err)
	} else {
		fmt.Printf("Found %d of %d issues\n", len(listResponse.Issues), listResponse.TotalCount)
	}

	fmt.Println("Fetching all issues through the paginator...")
	aggregate, err := issueClient.ListAll(ctx, common.Params{"limit": 250})
	if err != nil {
		printError("Error fetching all issues: %v\n", err)
	} else if items, ok := aggregate["issues"].([]any); ok {
		fmt.Printf("Aggregated %d issues\n", len(items))
	}

	fmt.Printf("Getting issue %d with journals...\n", created.ID)
	got, err := issueClient.Get(ctx, created.ID, "journals", "watchers")
	if err != nil {
		printError("Error getting issue: %v\n", err)
	} else {
		fmt.Printf("Got issue: %s\n", got.Subject)
	}

	fmt.Printf("Updating issue %d...\n", created.ID)
	err = issueClient.Update(ctx, created.ID, &issues.UpdateRequest{Notes: "integration note"})
	if err != nil {
		printError("Error updating issue: %v\n", err)
	}

	fmt.Printf("Deleting issue %d...\n", created.ID)
	if err := issueClient.Delete(ctx, created.ID); err != nil {
		printError("Error deleting issue: %v\n", err)
	} else {
		fmt.Println("Issue deleted successfully")
	}

	fmt.Println("Issue API tests completed!")
}

func runUserTests(client *redmine.Redmine) {
	ctx := context.Background()
	userClient := client.Users()

	fmt.Println("Testing User API...")

	fmt.Println("Listing active users...")
	listResponse, err := userClient.List(ctx, users.ListParams{Status: users.StatusActive, Limit: 10})
	if err != nil {
		printError("Error listing users: %v\n", err)
	} else {
		fmt.Printf("Found %d of %d users\n", len(listResponse.Users), listResponse.TotalCount)
	}

	fmt.Println("Getting current user...")
	me, err := userClient.Current(ctx)
	if err != nil {
		printError("Error getting current user: %v\n", err)
	} else {
		fmt.Printf("Current user: %s (%s)\n", me.Login, me.Mail)
	}

	fmt.Println("User API tests completed!")
}

func runTimeEntryTests(client *redmine.Redmine, projectID int) {
	ctx := context.Background()
	entryClient := client.TimeEntries()

	fmt.Println("Testing Time Entry API...")

	fmt.Println("Creating test time entry...")
	created, err := entryClient.Create(ctx, &timeentries.CreateRequest{
		ProjectID: projectID,
		Hours:     0.25,
		Comments:  "integration run",
	})
	if err != nil {
		printError("Error creating time entry: %v\n", err)
		return
	}
	fmt.Printf("Created time entry with ID: %d\n", created.ID)

	fmt.Println("Listing time entries...")
	listResponse, err := entryClient.List(ctx, timeentries.ListParams{ProjectID: strconv.Itoa(projectID), Limit: 10})
	if err != nil {
		printError("Error listing time entries: %v\n", err)
	} else {
		fmt.Printf("Found %d of %d time entries\n", len(listResponse.TimeEntries), listResponse.TotalCount)
	}

	fmt.Printf("Deleting time entry %d...\n", created.ID)
	if err := entryClient.Delete(ctx, created.ID); err != nil {
		printError("Error deleting time entry: %v\n", err)
	} else {
		fmt.Println("Time entry deleted successfully")
	}

	fmt.Println("Time Entry API tests completed!")
}

func runUploadTests(client *redmine.Redmine, projectID int) {
	ctx := context.Background()

	fmt.Println("Testing Upload API...")

	upload, err := client.Uploads().Send(ctx, "integration.txt", []byte("uploaded by the integration script"))
	if err != nil {
		printError("Error uploading file: %v\n", err)
		return
	}
	fmt.Printf("Uploaded file, got token: %s\n", upload.Token)

	fmt.Println("Attaching upload to a new issue...")
	created, err := client.Issues().Create(ctx, &issues.CreateRequest{
		ProjectID: projectID,
		Subject:   "redmine-go upload issue",
		Uploads: issues.UploadRefs{
			{Token: upload.Token, Filename: "integration.txt", ContentType: "text/plain"},
		},
	})
	if err != nil {
		printError("Error creating issue with upload: %v\n", err)
		return
	}
	fmt.Printf("Created issue with ID: %d\n", created.ID)

	if err := client.Issues().Delete(ctx, created.ID); err != nil {
		printError("Error deleting issue: %v\n", err)
	}

	fmt.Println("Upload API tests completed!")
}

func main() {
	host := os.Getenv("REDMINE_HOST")
	apiKey := os.Getenv("REDMINE_API_KEY")
	if host == "" || apiKey == "" {
		printError("REDMINE_HOST and REDMINE_API_KEY must be set\n")
		os.Exit(1)
	}
	projectID := 1

	client := redmine.NewClient(host, apiKey, redmine.WithMetrics())

	printInfo("Connecting to %s\n", host)
	me, err := client.Users().Current(context.Background())
	if err != nil {
		printError("Error fetching current user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Authenticated as %s%s%s\n", ColorGreen, me.Login, ColorReset)

	identifier := runProjectTests(client)
	runIssueTests(client, projectID)
	runUserTests(client)
	runTimeEntryTests(client, projectID)
	runUploadTests(client, projectID)

	if identifier != "" {
		fmt.Printf("Cleaning up project %s...\n", identifier)
		if err := client.Projects().Delete(context.Background(), identifier); err != nil {
			printError("Error deleting project: %v\n", err)
		}
	}

	fmt.Println("All integration tests completed!")
}
