package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/gammalert/internal/pipeline"
	"github.com/wonny/gammalert/internal/scheduler"
	"github.com/wonny/gammalert/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

이 명령어는:
- 스케줄러 데몬 시작
- 등록된 작업 조회
- 특정 작업 즉시 실행

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/gammalert scheduler start
  go run ./cmd/gammalert scheduler list
  go run ./cmd/gammalert scheduler run market-analysis`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `스케줄러를 시작하고 등록된 모든 작업을 스케줄합니다.

등록되는 작업:
- market-analysis: 설정된 심볼 전체 분석 (기본: 평일 17:30)

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: startScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func startScheduler(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	fmt.Println("Scheduler started")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}

	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Printf("Running job: %s\n", jobName)

	if err := sched.RunJob(jobName); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	history, err := sched.GetJobHistory(jobName)
	if err != nil {
		return err
	}

	if latest := history.Latest(); latest != nil && !latest.Success {
		return fmt.Errorf("job failed: %s", latest.Error)
	}

	fmt.Println("Job completed")
	return nil
}

func initScheduler() (*scheduler.Scheduler, error) {
	d, err := initDeps(pipeline.Options{})
	if err != nil {
		return nil, err
	}

	sched := scheduler.New(d.log)

	job := jobs.NewAnalysisJob(d.pipeline, d.cfg.Analysis.Symbols, d.cfg.Analysis.Schedule, d.log)
	if err := sched.AddJob(job); err != nil {
		return nil, fmt.Errorf("register job: %w", err)
	}

	return sched, nil
}
