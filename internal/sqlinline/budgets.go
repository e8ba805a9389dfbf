package sqlinline

const QEnsureUserBudget = `--sql 0a47dd56-8a9a-44b2-ad22-e38508fe41f2
insert into user_budgets (user_id, items_today, daily_limit, month_cost, monthly_limit, passed_count, failed_count, last_reset_at, updated_at)
values ($1::uuid, 0, $2::int, 0, $3::numeric, 0, 0, current_date, now())
on conflict (user_id) do update set user_id = excluded.user_id
returning user_id, items_today, daily_limit, month_cost, monthly_limit, passed_count, failed_count, last_reset_at, updated_at;
`

const QResetDailyBudget = `--sql 1974c99b-89da-4247-886f-b2e1ece93a8c
update user_budgets
set items_today = 0,
    last_reset_at = $2::date,
    updated_at = now()
where user_id = $1::uuid;
`

const QRecordBudgetOutcome = `--sql 0b2b6996-fa8e-4f07-8104-1b7bfb545a5f
update user_budgets
set items_today = items_today + $2::int,
    month_cost = month_cost + $3::numeric,
    passed_count = passed_count + case when $4::boolean then 1 else 0 end,
    failed_count = failed_count + case when $4::boolean then 0 else 1 end,
    updated_at = now()
where user_id = $1::uuid;
`

const QSetBudgetLimits = `--sql f73e11cf-d39f-43f4-aa0f-0ce021f292b0
insert into user_budgets (user_id, items_today, daily_limit, month_cost, monthly_limit, passed_count, failed_count, last_reset_at, updated_at)
values ($1::uuid, 0, $2::int, 0, $3::numeric, 0, 0, current_date, now())
on conflict (user_id) do update set
    daily_limit = excluded.daily_limit,
    monthly_limit = excluded.monthly_limit,
    updated_at = now();
`
