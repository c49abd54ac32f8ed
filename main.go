package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/nvkalinin/openhours/cmd"
	"github.com/nvkalinin/openhours/log"
)

type CLI struct {
	Debug bool `short:"d" long:"debug" env:"DEBUG" description:"Выводить отладочные сообщения в лог."`

	Server cmd.Server `command:"server" description:"Запустить сервер (rest + периодическое обновление расписаний)."`
	Check  cmd.Check  `command:"check" description:"Разобрать расписание и проверить, открыто ли в указанный момент."`
	Backup cmd.Backup `command:"backup" description:"Сделать резервную копию хранилища bolt."`
}

func main() {
	cli := &CLI{}
	parser := flags.NewParser(cli, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		log.AllowDebug = cli.Debug

		if cmd != nil {
			return cmd.Execute(args)
		}
		return nil
	}

	if _, err := parser.Parse(); err != nil {
		flagsErr, isFlagsErr := err.(flags.ErrorType)
		if isFlagsErr && flagsErr == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
