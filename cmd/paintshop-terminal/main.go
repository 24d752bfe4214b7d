package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"paintshop-terminal/internal/api"
	"paintshop-terminal/internal/bulkedit"
	"paintshop-terminal/internal/config"
	"paintshop-terminal/internal/inspection"
	"paintshop-terminal/internal/intake"
	"paintshop-terminal/internal/lock"
	"paintshop-terminal/internal/logger"
	"paintshop-terminal/internal/models"
	"paintshop-terminal/internal/opslog"
	"paintshop-terminal/internal/scanner"
	"paintshop-terminal/internal/session"
	"paintshop-terminal/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "paintshop-terminal")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	kv := newKV(cfg, log)
	sessStore := session.NewStore(kv)

	client := api.New(cfg.API.BaseURL, time.Duration(cfg.API.Timeout)*time.Second, cfg.API.Retries, log)
	client.SetTokenProvider(sessStore.TokenProvider())
	gate := session.NewGate(client, sessStore, log)

	locker := lock.NewLocker(kv, time.Duration(cfg.Lock.LeaseTTL)*time.Second, log)
	inspector := inspection.NewInspector(client, kv, locker,
		time.Duration(cfg.Inspection.ProgressTTL)*time.Second, log)
	editor := bulkedit.NewEditor(client, log)
	journal := intake.NewJournal(kv, time.Duration(cfg.Inspection.ProgressTTL)*time.Second, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	in := bufio.NewReader(os.Stdin)

	if err := gate.EnsureValid(ctx); err != nil {
		if !errors.Is(err, session.ErrLoginRequired) {
			log.Fatal("auth check failed", zap.Error(err))
		}
		if err := runLogin(ctx, in, client, sessStore); err != nil {
			log.Fatal("login failed", zap.Error(err))
		}
	}

	user, err := client.Me(ctx)
	if err != nil {
		log.Fatal("failed to load current user", zap.Error(err))
	}
	fmt.Printf("Signed in as %s (%s)\n", user.Name, user.Username)

	if cfg.OpsLog.Enabled {
		watcher := opslog.NewWatcher(client, time.Duration(cfg.OpsLog.Interval)*time.Second, log)
		go watcher.Run(ctx)
	}

	runTerminal(ctx, in, client, inspector, editor, journal, *user, log)
}

// newKV Redis 未配置时退化为内存 KV：
// 单机模式，编辑声明只约束本终端
func newKV(cfg *config.Config, log *zap.Logger) store.KV {
	if cfg.Redis.Addr == "" {
		log.Warn("REDIS_ADDR not set, falling back to in-memory store (claims are local only)")
		return store.NewMemoryKV()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelPing()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis unreachable", zap.Error(err))
	}
	return store.NewRedisKV(rdb)
}

// runLogin 登录向导：凭证 →（可选绑定 Telegram）→ 验证码
func runLogin(ctx context.Context, in *bufio.Reader, client *api.Client, st *session.Store) error {
	wizard := session.NewWizard(client, st)

	username := prompt(in, "Username: ")
	password := prompt(in, "Password: ")
	needBind, err := wizard.SubmitCredentials(ctx, username, password)
	if err != nil {
		return err
	}
	if needBind {
		tgID := prompt(in, "Telegram ID (first login): ")
		if err := wizard.BindTelegram(ctx, tgID); err != nil {
			return err
		}
	}
	code := prompt(in, "Verification code: ")
	if err := wizard.SubmitCode(ctx, code); err != nil {
		return err
	}
	fmt.Println("Login OK")
	return nil
}

func runTerminal(ctx context.Context, in *bufio.Reader, client *api.Client,
	inspector *inspection.Inspector, editor *bulkedit.Editor, journal *intake.Journal,
	user models.User, log *zap.Logger) {
	for ctx.Err() == nil {
		fmt.Println("\n[1] inspect device  [2] bulk edit  [3] receive into request  [q] quit")
		switch prompt(in, "> ") {
		case "1":
			if err := runInspection(ctx, in, client, inspector, user); err != nil {
				fmt.Println("error:", err)
			}
		case "2":
			if err := runBulkEdit(ctx, in, client, editor); err != nil {
				fmt.Println("error:", err)
			}
		case "3":
			if err := runIntake(ctx, in, client, journal); err != nil {
				fmt.Println("error:", err)
			}
		case "q", "":
			return
		}
	}
}

// runIntake 入库收货：连续扫描设备登记到工单台账，重复扫描当场拦下
func runIntake(ctx context.Context, in *bufio.Reader, client *api.Client, journal *intake.Journal) error {
	var requestID int64
	fmt.Sscanf(prompt(in, "Request ID: "), "%d", &requestID)
	if requestID == 0 {
		return fmt.Errorf("request id required")
	}

	for {
		fmt.Println("Scan or type the device code (empty to finish):")
		resolver := scanner.NewManualResolver(in)
		code, err := resolver.Resolve(ctx)
		if err != nil {
			if errors.Is(err, scanner.ErrNoInput) {
				break
			}
			return err
		}
		atm, err := client.SearchATM(ctx, code, "scan")
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if err := journal.Add(ctx, requestID, atm.SerialNumber); err != nil {
			fmt.Println("error:", err)
			continue
		}
		fmt.Printf("Received %s (%s)\n", atm.SerialNumber, atm.Model)
	}

	serials, err := journal.List(ctx, requestID)
	if err != nil {
		return err
	}
	fmt.Printf("Request %d: %d devices scanned\n", requestID, len(serials))
	return nil
}

func runInspection(ctx context.Context, in *bufio.Reader, client *api.Client,
	inspector *inspection.Inspector, user models.User) error {
	fmt.Println("Scan or type the device code:")
	resolver := scanner.NewManualResolver(in)
	defer resolver.Stop()
	code, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	atm, err := client.SearchATM(ctx, code, "manual")
	if err != nil {
		return err
	}
	fmt.Printf("Device %s (%s), status: %s\n", atm.SerialNumber, atm.Model, atm.Status)

	sess, err := inspector.Open(ctx, atm.SerialNumber, user)
	if err != nil {
		var locked *inspection.LockedError
		if errors.As(err, &locked) {
			fmt.Printf("Read-only: locked by %s (%s)\n", locked.Claimant.Name, locked.Claimant.Username)
			return nil
		}
		return err
	}

	for _, zone := range sess.Zones {
		if st := sess.ZoneState(zone); st == inspection.ZoneNoIssues || st == inspection.ZonePhotoAttached {
			continue // 恢复的进度里已完成的区域跳过
		}
		answer := prompt(in, fmt.Sprintf("%s — [1] no issues, [2] has issues: ", zone))
		opt := inspection.OptionNoIssues
		if answer == "2" {
			opt = inspection.OptionHasIssues
		}
		if err := inspector.SelectOption(ctx, sess, zone, opt); err != nil {
			return err
		}
		if opt == inspection.OptionHasIssues {
			path := prompt(in, "Photo file path: ")
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read photo: %w", err)
			}
			comment := prompt(in, "Comment: ")
			if err := inspector.AttachPhoto(ctx, sess, zone, comment,
				[]api.Photo{{Name: fileName(path), Data: data}}); err != nil {
				return err
			}
		}
	}

	if !sess.CanSubmit() {
		fmt.Println("Checklist incomplete, progress saved")
		return nil
	}
	if prompt(in, "Submit inspection? [y/N] ") != "y" {
		fmt.Println("Progress saved")
		return nil
	}
	if err := inspector.Submit(ctx, sess); err != nil {
		return err
	}
	fmt.Println("Inspection submitted")
	return nil
}

func runBulkEdit(ctx context.Context, in *bufio.Reader, client *api.Client, editor *bulkedit.Editor) error {
	page, err := client.ListATMs(ctx, 1)
	if err != nil {
		return err
	}
	for i, atm := range page.Results {
		fmt.Printf("%3d. %s  %s  %s\n", i+1, atm.SerialNumber, atm.Model, atm.Status)
	}

	sel := bulkedit.NewSelection(page.Results)
	switch prompt(in, "[a] select all, or count of first rows: ") {
	case "a":
		sel.SelectAll()
	default:
		var n int
		fmt.Sscanf(prompt(in, "How many: "), "%d", &n)
		sel.SelectFirstN(n)
	}
	if sel.Count() == 0 {
		fmt.Println("Nothing selected")
		return nil
	}

	change := bulkedit.Change{}
	if v := prompt(in, "New status (empty to skip): "); v != "" {
		change.Status = &v
	}
	if v := prompt(in, "New note (empty to skip): "); v != "" {
		change.Note = &v
	}
	if v := prompt(in, "Payment amount (empty to skip): "); v != "" {
		change.Payment = &v
	}
	if v := prompt(in, "Date from, YYYY-MM-DD (empty to skip): "); v != "" {
		change.DateFrom = &v
		if to := prompt(in, "Date to, YYYY-MM-DD: "); to != "" {
			change.DateTo = &to
		}
	}

	for _, res := range editor.Apply(ctx, sel.IDs(), change) {
		if res.Err != nil {
			fmt.Printf("%s: FAILED (%v)\n", res.Field, res.Err)
		} else {
			fmt.Printf("%s: ok\n", res.Field)
		}
	}
	return nil
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func fileName(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
