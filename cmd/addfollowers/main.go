package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/d60-Lab/feed-service/config"
	"github.com/d60-Lab/feed-service/internal/repository"
	"github.com/d60-Lab/feed-service/internal/service"
	"github.com/d60-Lab/feed-service/pkg/database"
)

const defaultLoginPrefix = "Reader #"

func main() {
	login := flag.String("login", defaultLoginPrefix, "follower login prefix")
	count := flag.Int("count", 100, "number of followers to create")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: addfollowers [-login prefix] [-count n] <authorId>")
		os.Exit(2)
	}
	authorID, err := strconv.ParseInt(flag.Arg(0), 10, 64)
	if err != nil || authorID <= 0 {
		fmt.Fprintln(os.Stderr, "authorId must be a positive integer")
		os.Exit(2)
	}
	if *count < 0 {
		fmt.Fprintln(os.Stderr, "Count should be positive integer")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	subSvc := service.NewSubscriptionService(userRepo, subRepo)

	author, err := userRepo.FindByID(ctx, authorID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if author == nil {
		fmt.Fprintf(os.Stderr, "User with ID %d doesn't exist\n", authorID)
		os.Exit(1)
	}

	created, err := subSvc.AddFollowers(ctx, author, fmt.Sprintf("%s%d", *login, authorID), *count)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("%d followers were created\n", created)
}
