// Command admin manages groups, posts and accounts from the shell.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"yatube/internal/bootstrap"
	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const usageText = `Usage:
  admin create-group <slug> <title> [description]  - Create a group
  admin list-groups                                - List all groups
  admin delete-group <slug>                        - Delete a group, keeping its posts
  admin delete-post <id>                           - Delete a post and its comments
  admin list-users [limit] [offset]                - List accounts by username
  admin flush-cache                                - Drop cached index pages
`

type admin struct {
	groups     *service.GroupService
	posts      *service.PostService
	users      *service.UserService
	indexCache *cache.FragmentCache
	out        io.Writer
}

func newAdmin(cfg *config.Config, db *gorm.DB, rdb *redis.Client, out io.Writer) *admin {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	followRepo := repository.NewFollowRepository(db)

	return &admin{
		groups:     service.NewGroupService(groupRepo),
		posts:      service.NewPostService(postRepo, groupRepo, nil, cfg.PageSize),
		users:      service.NewUserService(userRepo, postRepo, followRepo, cfg.PageSize),
		indexCache: cache.NewIndexCache(rdb, time.Duration(cfg.IndexCacheTTLSeconds)*time.Second),
		out:        out,
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usageText)
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := newAdmin(cfg, db, rdb, os.Stdout).run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func (a *admin) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usageText)
	}

	switch args[0] {
	case "create-group":
		if len(args) < 3 {
			return fmt.Errorf("usage: admin create-group <slug> <title> [description]")
		}
		in := service.CreateGroupInput{Slug: args[1], Title: args[2]}
		if len(args) > 3 {
			in.Description = strings.Join(args[3:], " ")
		}
		group, err := a.groups.CreateGroup(ctx, in)
		if err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		fmt.Fprintf(a.out, "✅ Created group %q (/group/%s/)\n", group.Title, group.Slug)

	case "list-groups":
		groups, err := a.groups.ListGroups(ctx)
		if err != nil {
			return fmt.Errorf("list groups: %w", err)
		}
		if len(groups) == 0 {
			fmt.Fprintln(a.out, "No groups found")
			return nil
		}
		for _, g := range groups {
			fmt.Fprintf(a.out, "%-20s | %s\n", g.Slug, g.Title)
		}

	case "delete-group":
		if len(args) < 2 {
			return fmt.Errorf("usage: admin delete-group <slug>")
		}
		if err := a.groups.DeleteGroup(ctx, args[1]); err != nil {
			return fmt.Errorf("delete group: %w", err)
		}
		fmt.Fprintf(a.out, "✅ Deleted group %s\n", args[1])

	case "delete-post":
		if len(args) < 2 {
			return fmt.Errorf("usage: admin delete-post <id>")
		}
		id, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid post id %q", args[1])
		}
		if err := a.posts.DeletePost(ctx, uint(id)); err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		fmt.Fprintf(a.out, "✅ Deleted post %d\n", id)

	case "list-users":
		limit, offset := 0, 0
		var err error
		if len(args) > 1 {
			if limit, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("invalid limit %q", args[1])
			}
		}
		if len(args) > 2 {
			if offset, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("invalid offset %q", args[2])
			}
		}
		users, err := a.users.ListUsers(ctx, limit, offset)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Fprintln(a.out, "No users found")
			return nil
		}
		for _, u := range users {
			fmt.Fprintf(a.out, "%-6d | %-20s | %s\n", u.ID, u.Username, u.CreatedAt.Format("2006-01-02"))
		}

	case "flush-cache":
		n, err := a.indexCache.Flush(ctx)
		if err != nil {
			return fmt.Errorf("flush cache: %w", err)
		}
		fmt.Fprintf(a.out, "✅ Dropped %d cached pages\n", n)

	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usageText)
	}
	return nil
}
