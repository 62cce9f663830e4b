package main

type Config struct {
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,default=./data/bluge"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES"`
	ImageFormat    string `env:"IMAGE_FORMAT,default=png"`
	AvatarSize     int    `env:"AVATAR_SIZE,default=64"`
	SearchLimit    int    `env:"SEARCH_LIMIT,default=10"`
}
